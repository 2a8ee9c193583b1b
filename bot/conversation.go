package bot

import (
	"errors"

	"github.com/VitalijsFilipovs/booking-bot/i18n"
	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/VitalijsFilipovs/booking-bot/services"
)

type Step string

const (
	StepIdle     Step = ""
	StepDate     Step = "date"
	StepTime     Step = "time"
	StepGuests   Step = "guests"
	StepTable    Step = "table"
	StepName     Step = "name"
	StepPhone    Step = "phone"
	StepDeleteID Step = "delete_id"
)

// Session is one user's place in the booking form and the answers
// collected so far.
type Session struct {
	UserID    int64            `json:"user_id"`
	Step      Step             `json:"step"`
	Date      models.Date      `json:"date"`
	StartTime models.ClockTime `json:"start_time"`
	PartySize int              `json:"party_size"`
	Offered   []uint           `json:"offered,omitempty"`
	TableID   uint             `json:"table_id,omitempty"`
	Name      string           `json:"name,omitempty"`
	Phone     string           `json:"phone,omitempty"`
}

func NewSession(userID int64) Session {
	return Session{UserID: userID, Step: StepDate}
}

// Request turns a completed session into a booking request.
func (s Session) Request(handle string) services.BookingRequest {
	return services.BookingRequest{
		RequesterID:      s.UserID,
		Name:             s.Name,
		Phone:            s.Phone,
		Date:             s.Date,
		StartTime:        s.StartTime,
		PartySize:        s.PartySize,
		PreferredTableID: s.TableID,
		RequesterHandle:  handle,
	}
}

type Effect int

const (
	// EffectReply only answers with Outcome.Reply.
	EffectReply Effect = iota
	// EffectFindTables asks the caller to look up free tables and pass
	// them to OfferTables.
	EffectFindTables
	// EffectSubmit means the form is complete.
	EffectSubmit
)

// Outcome is the result of feeding one input to a session.
type Outcome struct {
	Session Session
	Effect  Effect
	Reply   string
	Args    []string
}

func reply(s Session, key string, args ...string) Outcome {
	return Outcome{Session: s, Effect: EffectReply, Reply: key, Args: args}
}

// Advance applies the text a user typed to the current step. Invalid
// input keeps the step and replies with the reason. It does no I/O.
func Advance(s Session, input string, p services.FieldParser) Outcome {
	switch s.Step {
	case StepDate:
		d, err := p.Date(input)
		if err != nil {
			return rejected(s, err)
		}
		s.Date = d
		s.Step = StepTime
		return reply(s, i18n.KeyAskTime)

	case StepTime:
		t, err := p.Time(input)
		if err != nil {
			return rejected(s, err)
		}
		s.StartTime = t
		s.Step = StepGuests
		return reply(s, i18n.KeyAskGuests)

	case StepGuests:
		n, err := p.Guests(input)
		if err != nil {
			return rejected(s, err)
		}
		s.PartySize = n
		s.Offered = nil
		s.TableID = 0
		return Outcome{Session: s, Effect: EffectFindTables}

	case StepTable:
		// tables are picked with the inline buttons
		return reply(s, i18n.KeyAskTable)

	case StepName:
		name, err := p.Name(input)
		if err != nil {
			return rejected(s, err)
		}
		s.Name = name
		s.Step = StepPhone
		return reply(s, i18n.KeyAskPhone)

	case StepPhone:
		phone, err := p.Phone(input)
		if err != nil {
			return rejected(s, err)
		}
		s.Phone = phone
		return Outcome{Session: s, Effect: EffectSubmit}
	}
	return Outcome{Session: s, Effect: EffectReply}
}

// OfferTables moves the session to the table step when something is
// free, or back to the time step when nothing is.
func OfferTables(s Session, free []models.Table) Outcome {
	if len(free) == 0 {
		s.Step = StepTime
		s.Offered = nil
		return reply(s, i18n.KeyNoTables)
	}
	s.Offered = make([]uint, len(free))
	for i, t := range free {
		s.Offered[i] = t.ID
	}
	s.Step = StepTable
	return reply(s, i18n.KeyAskTable)
}

// ChooseTable records a tapped table. Only tables offered at the table
// step are accepted.
func ChooseTable(s Session, tableID uint) (Outcome, bool) {
	if s.Step != StepTable {
		return Outcome{Session: s}, false
	}
	for _, id := range s.Offered {
		if id == tableID {
			s.TableID = tableID
			s.Step = StepName
			return reply(s, i18n.KeyAskName), true
		}
	}
	return Outcome{Session: s}, false
}

// SubmitFailed maps an error from submitting the finished form back onto
// the conversation: the step owning the bad field is asked again, and a
// lost table goes back to choosing a time.
func SubmitFailed(s Session, err error) (Outcome, bool) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		s.Step = stepForField(verr.Field, s.Step)
		return reply(s, verr.Key, verr.Args...), true
	case errors.Is(err, services.ErrNoAvailability):
		s.Step = StepTime
		s.Offered = nil
		s.TableID = 0
		return reply(s, i18n.KeyNoTables), true
	}
	return Outcome{Session: s}, false
}

func rejected(s Session, err error) Outcome {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return reply(s, verr.Key, verr.Args...)
	}
	return reply(s, i18n.KeyErrGeneric)
}

func stepForField(field string, current Step) Step {
	switch field {
	case "date":
		return StepDate
	case "time":
		return StepTime
	case "party_size":
		return StepGuests
	case "name":
		return StepName
	case "phone":
		return StepPhone
	}
	return current
}
