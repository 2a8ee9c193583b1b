package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/VitalijsFilipovs/booking-bot/i18n"
	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/VitalijsFilipovs/booking-bot/services"
)

var ErrUnknownCallback = errors.New("unknown callback data")

// Callback is the decoded form of an inline button's callback data. The
// set of variants is closed; Data encodes a variant back to the string
// Telegram stores with the button.
type Callback interface {
	Data() string
	callback()
}

// ChooseLanguage is the language picker.
type ChooseLanguage struct {
	Lang string
}

// PickTable selects one of the tables offered during a booking.
type PickTable struct {
	TableID uint
}

// SetStatus confirms or cancels a booking. FromNotice is set for the
// buttons under the new-booking notice, whose text gets a note appended.
type SetStatus struct {
	BookingID  uint
	Status     models.BookingStatus
	FromNotice bool
}

type DeleteBooking struct {
	BookingID uint
}

// AskDelete switches the admin into typing a booking id to delete.
type AskDelete struct {
	Page   int
	Filter services.StatusFilter
}

// ShowPage re-renders the admin list. FilterPicked is set when the
// admin tapped a filter button rather than an arrow.
type ShowPage struct {
	Page         int
	Filter       services.StatusFilter
	FilterPicked bool
}

type Noop struct{}

func (ChooseLanguage) callback() {}
func (PickTable) callback() {}
func (SetStatus) callback() {}
func (DeleteBooking) callback() {}
func (AskDelete) callback() {}
func (ShowPage) callback() {}
func (Noop) callback() {}

func (c ChooseLanguage) Data() string { return "lang:" + c.Lang }

func (c PickTable) Data() string { return fmt.Sprintf("pick_table:%d", c.TableID) }

func (c SetStatus) Data() string {
	prefix := "ap"
	if c.FromNotice {
		prefix = "adm"
	}
	action := "confirm"
	if c.Status == models.StatusCancelled {
		action = "cancel"
	}
	return fmt.Sprintf("%s:%s:%d", prefix, action, c.BookingID)
}

func (c DeleteBooking) Data() string { return fmt.Sprintf("ap:delete:%d", c.BookingID) }

func (c AskDelete) Data() string { return fmt.Sprintf("ap:delask:%d:%s", c.Page, filterOrAll(c.Filter)) }

func (c ShowPage) Data() string {
	action := "page"
	if c.FilterPicked {
		action = "set_status"
	}
	return fmt.Sprintf("ap:%s:%d:%s", action, c.Page, filterOrAll(c.Filter))
}

func (Noop) Data() string { return "ap:nop" }

func filterOrAll(f services.StatusFilter) services.StatusFilter {
	if f == "" {
		return services.FilterAll
	}
	return f
}

// ParseCallback decodes callback data produced by Data.
func ParseCallback(data string) (Callback, error) {
	parts := strings.Split(data, ":")
	switch {
	case len(parts) == 2 && parts[0] == "lang":
		if !i18n.Supported(parts[1]) {
			break
		}
		return ChooseLanguage{Lang: parts[1]}, nil

	case len(parts) == 2 && parts[0] == "pick_table":
		id, err := parseID(parts[1])
		if err != nil {
			return nil, err
		}
		return PickTable{TableID: id}, nil

	case len(parts) == 2 && data == "ap:nop":
		return Noop{}, nil

	case len(parts) == 3 && (parts[0] == "adm" || parts[0] == "ap"):
		id, err := parseID(parts[2])
		if err != nil {
			return nil, err
		}
		fromNotice := parts[0] == "adm"
		switch parts[1] {
		case "confirm":
			return SetStatus{BookingID: id, Status: models.StatusConfirmed, FromNotice: fromNotice}, nil
		case "cancel":
			return SetStatus{BookingID: id, Status: models.StatusCancelled, FromNotice: fromNotice}, nil
		case "delete":
			if !fromNotice {
				return DeleteBooking{BookingID: id}, nil
			}
		}

	case len(parts) == 4 && parts[0] == "ap":
		page, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCallback, data)
		}
		page = min(max(page, 0), services.MaxPage)
		filter, ok := services.ParseStatusFilter(parts[3])
		if !ok {
			break
		}
		switch parts[1] {
		case "page":
			return ShowPage{Page: page, Filter: filter}, nil
		case "set_status":
			return ShowPage{Page: page, Filter: filter, FilterPicked: true}, nil
		case "delask":
			return AskDelete{Page: page, Filter: filter}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCallback, data)
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad id %q", ErrUnknownCallback, s)
	}
	return uint(id), nil
}
