package i18n

// Message keys.
const (
	KeyStart                = "start"
	KeyChooseLang           = "choose_lang"
	KeyBtnBook              = "btn_book"
	KeyBtnMenu              = "btn_menu"
	KeyBtnCancel            = "btn_cancel"
	KeyBtnChangeLang        = "btn_change_lang"
	KeyAskDate              = "ask_date"
	KeyAskTime              = "ask_time"
	KeyAskGuests            = "ask_guests"
	KeyAskTable             = "ask_table"
	KeyNoTables             = "no_tables"
	KeyAskName              = "ask_name"
	KeyAskPhone             = "ask_phone"
	KeyCancelled            = "cancelled"
	KeyThanks               = "thanks"
	KeyMenu                 = "menu"
	KeyMenuEmpty            = "menu_empty"
	KeyChatID               = "id"
	KeyErrDateFormat        = "err_date_format"
	KeyErrDatePast          = "err_date_past"
	KeyErrTimeFormat        = "err_time_format"
	KeyErrTimeHours         = "err_time_hours"
	KeyErrGuestsNan         = "err_guests_nan"
	KeyErrGuestsRange       = "err_guests_range"
	KeyErrNameShort         = "err_name_short"
	KeyErrPhoneShort        = "err_phone_short"
	KeyLangSet              = "lang_set"
	KeyBtnLangRu            = "btn_lang_ru"
	KeyBtnLangLv            = "btn_lang_lv"
	KeyBtnLangEn            = "btn_lang_en"
	KeyUserConfirmed        = "user_confirmed"
	KeyUserCancelled        = "user_cancelled"
	KeyAdminNew             = "admin_new"
	KeyAdminNoteConfirmed   = "admin_note_confirmed"
	KeyAdminNoteCancelled   = "admin_note_cancelled"
	KeyBtnAdminConfirm      = "btn_admin_confirm"
	KeyBtnAdminCancel       = "btn_admin_cancel"
	KeyAdminFieldDate       = "admin_field_date"
	KeyAdminFieldTime       = "admin_field_time"
	KeyAdminFieldTable      = "admin_field_table"
	KeyAdminFieldGuests     = "admin_field_guests"
	KeyAdminFieldName       = "admin_field_name"
	KeyAdminFieldPhone      = "admin_field_phone"
	KeyAdminFieldUser       = "admin_field_user"
	KeyBtnAdminPanel        = "btn_admin_panel"
	KeyBtnAdminDelete       = "btn_admin_delete"
	KeyAdminStatusLabel     = "admin_status_label"
	KeyAdminFilterAll       = "admin_filter_all"
	KeyAdminFilterNew       = "admin_filter_new"
	KeyAdminFilterConfirmed = "admin_filter_confirmed"
	KeyAdminFilterCancelled = "admin_filter_cancelled"
	KeyAdminListHeader      = "admin_list_header"
	KeyEmpty                = "empty"
	KeyEnterBookingID       = "enter_booking_id"
	KeyAskID                = "ask_id"
	KeyIDMustBeNumber       = "id_must_be_number"
	KeyNeedNumber           = "need_number"
	KeyBookingDeleted       = "booking_deleted"
	KeyBookingNotFound      = "booking_not_found"
	KeyOK                   = "ok"
	KeyDoneConfirmed        = "done_confirmed"
	KeyDoneCancelled        = "done_cancelled"
	KeyDoneDeleted          = "done_deleted"
	KeyReplyStub            = "reply_stub"
	KeyTableOption          = "table_option"
	KeyErrGeneric           = "err_generic"
	KeyWhoami               = "whoami"
	KeyCmdStart             = "cmd_start"
	KeyCmdBook              = "cmd_book"
	KeyCmdAdmin             = "cmd_admin"
	KeyBookingStatusKept    = "booking_status_kept"
)

var messages = map[string]map[string]string{
	"ru": {
		KeyStart:                "👋 Привет! Я бот для бронирования столиков.\n\nНажмите «{btn_book}» и ответьте на вопросы — это быстро.",
		KeyChooseLang:           "🌍 Выберите язык:",
		KeyBtnBook:              "Забронировать столик",
		KeyBtnMenu:              "Посмотреть меню",
		KeyBtnCancel:            "Отмена",
		KeyBtnChangeLang:        "🌍 Сменить язык",
		KeyAskDate:              "🗓 Введите дату (ДД.ММ.ГГГГ), напр.: 05.09.2025",
		KeyAskTime:              "⏰ Введите время (ЧЧ:ММ), напр.: 19:30",
		KeyAskGuests:            "👥 Сколько гостей? (числом)",
		KeyAskTable:             "🪑 Выберите столик:",
		KeyNoTables:             "😕 На это время свободных столиков нет. Попробуйте другое время.",
		KeyAskName:              "🧾 Ваше имя для брони?",
		KeyAskPhone:             "📞 Ваш телефон (для подтверждения)?",
		KeyCancelled:            "Отменено.",
		KeyThanks:               "✅ Спасибо! Мы получили вашу заявку и скоро свяжемся.",
		KeyMenu:                 "📋 Меню: {url}",
		KeyMenuEmpty:            "📋 Меню пока не добавлено. Укажите MENU_URL в .env",
		KeyChatID:               "Ваш chat_id: {id}",
		KeyErrDateFormat:        "Введите дату в формате ДД.ММ.ГГГГ (например 05.09.2025)",
		KeyErrDatePast:          "Дата в прошлом",
		KeyErrTimeFormat:        "Введите время в формате 19:30 (допустимо 19.30 или 1930).",
		KeyErrTimeHours:         "Брони принимаются с {open} до {close}.",
		KeyErrGuestsNan:         "Введите число гостей, напр. 2",
		KeyErrGuestsRange:       "Количество гостей от 1 до 30",
		KeyErrNameShort:         "Имя слишком короткое. Попробуйте ещё раз.",
		KeyErrPhoneShort:        "Телефон выглядит слишком коротким. Введите ещё раз.",
		KeyLangSet:              "✅ Язык сохранён.",
		KeyBtnLangRu:            "🇷🇺 Русский",
		KeyBtnLangLv:            "🇱🇻 Latviešu",
		KeyBtnLangEn:            "🇬🇧 English",
		KeyUserConfirmed:        "✅ Ваша бронь подтверждена! До встречи!",
		KeyUserCancelled:        "❌ К сожалению, бронь отменена. Свяжитесь с нами для переноса.",
		KeyAdminNew:             "📩 Новая бронь:",
		KeyAdminNoteConfirmed:   "✅ Подтверждено администратором.",
		KeyAdminNoteCancelled:   "❌ Отменено администратором.",
		KeyBtnAdminConfirm:      "✅ Подтвердить",
		KeyBtnAdminCancel:       "❌ Отменить",
		KeyAdminFieldDate:       "Дата",
		KeyAdminFieldTime:       "Время",
		KeyAdminFieldTable:      "Столик",
		KeyAdminFieldGuests:     "Гостей",
		KeyAdminFieldName:       "Имя",
		KeyAdminFieldPhone:      "Телефон",
		KeyAdminFieldUser:       "От пользователя",
		KeyBtnAdminPanel:        "👑 Админ-панель",
		KeyBtnAdminDelete:       "🗑 Удалить…",
		KeyAdminStatusLabel:     "Статус",
		KeyAdminFilterAll:       "все",
		KeyAdminFilterNew:       "новые",
		KeyAdminFilterConfirmed: "подтверждённые",
		KeyAdminFilterCancelled: "отменённые",
		KeyAdminListHeader:      "📋 Брони (page {page}, {status_label}: {status}):",
		KeyEmpty:                "Пусто.",
		KeyEnterBookingID:       "Введите номер брони (ID), например: 12",
		KeyAskID:                "Укажи ID: /del 12  (или просто напиши число)",
		KeyIDMustBeNumber:       "ID должен быть числом. Пример: /del 12",
		KeyNeedNumber:           "Нужно число. Пример: 12",
		KeyBookingDeleted:       "Бронь #{id} удалена.",
		KeyBookingNotFound:      "Бронь #{id} не найдена.",
		KeyOK:                   "ОК",
		KeyDoneConfirmed:        "Подтверждено",
		KeyDoneCancelled:        "Отменено",
		KeyDoneDeleted:          "Удалено",
		KeyReplyStub:            "Меню",
		KeyTableOption:          "{title} — {seats} мест",
		KeyErrGeneric:           "⚠️ Что-то пошло не так. Попробуйте ещё раз.",
		KeyWhoami:               "user_id: {user_id}\nchat_id: {chat_id}\nusername: @{username}\nname: {name}",
		KeyCmdStart:             "Главное меню",
		KeyCmdBook:              "Забронировать столик",
		KeyCmdAdmin:             "Админ-панель",
		KeyBookingStatusKept:    "Статус не изменён: {status}",
	},
	"lv": {
		KeyStart:                "👋 Sveiki! Es esmu galdu rezervēšanas bots.\n\nNospiediet «{btn_book}» un atbildiet uz jautājumiem — tas ir ātri.",
		KeyChooseLang:           "🌍 Izvēlieties valodu:",
		KeyBtnBook:              "Rezervēt galdu",
		KeyBtnMenu:              "Apskatīt ēdienkarti",
		KeyBtnCancel:            "Atcelt",
		KeyBtnChangeLang:        "🌍 Valoda",
		KeyAskDate:              "🗓 Ievadiet datumu (DD.MM.GGGG), piem.: 05.09.2025",
		KeyAskTime:              "⏰ Ievadiet laiku (HH:MM), piem.: 19:30",
		KeyAskGuests:            "👥 Cik viesu? (skaitlis)",
		KeyAskTable:             "🪑 Izvēlieties galdu:",
		KeyNoTables:             "😕 Šim laikam brīvu galdu nav. Pamēģiniet citu laiku.",
		KeyAskName:              "🧾 Jūsu vārds rezervācijai?",
		KeyAskPhone:             "📞 Jūsu tālrunis (apstiprināšanai)?",
		KeyCancelled:            "Atcelts.",
		KeyThanks:               "✅ Paldies! Mēs saņēmām jūsu pieteikumu un drīz sazināsimies.",
		KeyMenu:                 "📋 Ēdienkarte: {url}",
		KeyMenuEmpty:            "📋 Ēdienkarte vēl nav pievienota. Norādiet MENU_URL .env failā",
		KeyChatID:               "Jūsu chat_id: {id}",
		KeyErrDateFormat:        "Ievadiet datumu formātā DD.MM.GGGG (piem. 05.09.2025)",
		KeyErrDatePast:          "Datums ir pagātnē",
		KeyErrTimeFormat:        "Ievadiet laiku formātā 19:30 (atļauts 19.30 vai 1930).",
		KeyErrTimeHours:         "Rezervācijas pieņem {open}–{close}.",
		KeyErrGuestsNan:         "Ievadiet viesu skaitu, piem. 2",
		KeyErrGuestsRange:       "Viesu skaits no 1 līdz 30",
		KeyErrNameShort:         "Vārds ir pārāk īss. Mēģiniet vēlreiz.",
		KeyErrPhoneShort:        "Tālruņa numurs izskatās pārāk īss. Ievadiet vēlreiz.",
		KeyLangSet:              "✅ Valoda saglabāta.",
		KeyBtnLangRu:            "🇷🇺 Krievu",
		KeyBtnLangLv:            "🇱🇻 Latviešu",
		KeyBtnLangEn:            "🇬🇧 Angļu",
		KeyUserConfirmed:        "✅ Jūsu rezervācija ir apstiprināta! Uz tikšanos!",
		KeyUserCancelled:        "❌ Diemžēl rezervācija ir atcelta. Sazinieties ar mums, lai pārceltu.",
		KeyAdminNew:             "📩 Jauna rezervācija:",
		KeyAdminNoteConfirmed:   "✅ Apstiprināts administratora.",
		KeyAdminNoteCancelled:   "❌ Atcelts administratora.",
		KeyBtnAdminConfirm:      "✅ Apstiprināt",
		KeyBtnAdminCancel:       "❌ Atcelt",
		KeyAdminFieldDate:       "Datums",
		KeyAdminFieldTime:       "Laiks",
		KeyAdminFieldTable:      "Galds",
		KeyAdminFieldGuests:     "Viesi",
		KeyAdminFieldName:       "Vārds",
		KeyAdminFieldPhone:      "Tālrunis",
		KeyAdminFieldUser:       "No lietotāja",
		KeyBtnAdminPanel:        "👑 Admin panelis",
		KeyBtnAdminDelete:       "🗑 Dzēst…",
		KeyAdminStatusLabel:     "Statuss",
		KeyAdminFilterAll:       "visi",
		KeyAdminFilterNew:       "jauni",
		KeyAdminFilterConfirmed: "apstiprināti",
		KeyAdminFilterCancelled: "atcelti",
		KeyAdminListHeader:      "📋 Rezervācijas (page {page}, {status_label}: {status}):",
		KeyEmpty:                "Tukšs.",
		KeyEnterBookingID:       "Ievadiet rezervācijas ID, piem.: 12",
		KeyAskID:                "Norādi ID: /del 12 (vai vienkārši skaitli)",
		KeyIDMustBeNumber:       "ID jābūt skaitlim. Piemērs: /del 12",
		KeyNeedNumber:           "Nepieciešams skaitlis. Piemērs: 12",
		KeyBookingDeleted:       "Rezervācija #{id} dzēsta.",
		KeyBookingNotFound:      "Rezervācija #{id} nav atrasta.",
		KeyOK:                   "Labi",
		KeyDoneConfirmed:        "Apstiprināts",
		KeyDoneCancelled:        "Atcelts",
		KeyDoneDeleted:          "Dzēsts",
		KeyReplyStub:            "Izvēlne",
		KeyTableOption:          "{title} — {seats} vietas",
		KeyErrGeneric:           "⚠️ Kaut kas nogāja greizi. Mēģiniet vēlreiz.",
		KeyWhoami:               "user_id: {user_id}\nchat_id: {chat_id}\nusername: @{username}\nname: {name}",
		KeyCmdStart:             "Galvenā izvēlne",
		KeyCmdBook:              "Rezervēt galdu",
		KeyCmdAdmin:             "Admin panelis",
		KeyBookingStatusKept:    "Statuss nav mainīts: {status}",
	},
	"en": {
		KeyStart:                "👋 Hi! I'm a table booking bot.\n\nTap “{btn_book}” and answer a few questions — it's quick.",
		KeyChooseLang:           "🌍 Choose your language:",
		KeyBtnBook:              "Reserve a table",
		KeyBtnMenu:              "View menu",
		KeyBtnCancel:            "Cancel",
		KeyBtnChangeLang:        "🌍 Language",
		KeyAskDate:              "🗓 Enter date (DD.MM.YYYY), e.g. 05.09.2025",
		KeyAskTime:              "⏰ Enter time (HH:MM), e.g. 19:30",
		KeyAskGuests:            "👥 How many guests? (number)",
		KeyAskTable:             "🪑 Select a table:",
		KeyNoTables:             "😕 No free tables for this time. Try another time.",
		KeyAskName:              "🧾 Your name for booking?",
		KeyAskPhone:             "📞 Your phone (for confirmation)?",
		KeyCancelled:            "Cancelled.",
		KeyThanks:               "✅ Thanks! We received your request and will contact you soon.",
		KeyMenu:                 "📋 Menu: {url}",
		KeyMenuEmpty:            "📋 Menu is not yet added. Set MENU_URL in .env",
		KeyChatID:               "Your chat_id: {id}",
		KeyErrDateFormat:        "Enter date in DD.MM.YYYY (e.g., 05.09.2025)",
		KeyErrDatePast:          "Date is in the past",
		KeyErrTimeFormat:        "Enter time as 19:30 (also 19.30 or 1930 allowed).",
		KeyErrTimeHours:         "Bookings are accepted from {open} to {close}.",
		KeyErrGuestsNan:         "Enter number of guests, e.g. 2",
		KeyErrGuestsRange:       "Guests from 1 to 30",
		KeyErrNameShort:         "Name is too short. Try again.",
		KeyErrPhoneShort:        "Phone looks too short. Enter again.",
		KeyLangSet:              "✅ Language saved.",
		KeyBtnLangRu:            "🇷🇺 Russian",
		KeyBtnLangLv:            "🇱🇻 Latvian",
		KeyBtnLangEn:            "🇬🇧 English",
		KeyUserConfirmed:        "✅ Your booking is confirmed! See you soon!",
		KeyUserCancelled:        "❌ Unfortunately, the booking was canceled. Please contact us to reschedule.",
		KeyAdminNew:             "📩 New booking:",
		KeyAdminNoteConfirmed:   "✅ Confirmed by admin.",
		KeyAdminNoteCancelled:   "❌ Canceled by admin.",
		KeyBtnAdminConfirm:      "✅ Confirm",
		KeyBtnAdminCancel:       "❌ Cancel",
		KeyAdminFieldDate:       "Date",
		KeyAdminFieldTime:       "Time",
		KeyAdminFieldTable:      "Table",
		KeyAdminFieldGuests:     "Guests",
		KeyAdminFieldName:       "Name",
		KeyAdminFieldPhone:      "Phone",
		KeyAdminFieldUser:       "From user",
		KeyBtnAdminPanel:        "👑 Admin panel",
		KeyBtnAdminDelete:       "🗑 Delete…",
		KeyAdminStatusLabel:     "Status",
		KeyAdminFilterAll:       "all",
		KeyAdminFilterNew:       "new",
		KeyAdminFilterConfirmed: "confirmed",
		KeyAdminFilterCancelled: "cancelled",
		KeyAdminListHeader:      "📋 Bookings (page {page}, {status_label}: {status}):",
		KeyEmpty:                "Empty.",
		KeyEnterBookingID:       "Enter booking ID (e.g., 12)",
		KeyAskID:                "Specify ID: /del 12 (or just the number)",
		KeyIDMustBeNumber:       "ID must be a number. Example: /del 12",
		KeyNeedNumber:           "Need a number. Example: 12",
		KeyBookingDeleted:       "Booking #{id} deleted.",
		KeyBookingNotFound:      "Booking #{id} not found.",
		KeyOK:                   "OK",
		KeyDoneConfirmed:        "Confirmed",
		KeyDoneCancelled:        "Cancelled",
		KeyDoneDeleted:          "Deleted",
		KeyReplyStub:            "Menu",
		KeyTableOption:          "{title} — {seats} seats",
		KeyErrGeneric:           "⚠️ Something went wrong. Please try again.",
		KeyWhoami:               "user_id: {user_id}\nchat_id: {chat_id}\nusername: @{username}\nname: {name}",
		KeyCmdStart:             "Main menu",
		KeyCmdBook:              "Reserve a table",
		KeyCmdAdmin:             "Admin panel",
		KeyBookingStatusKept:    "Status unchanged: {status}",
	},
}
