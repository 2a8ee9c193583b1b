package services

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/VitalijsFilipovs/booking-bot/i18n"
	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/go-playground/validator/v10"
)

// BookingPolicy holds the house rules applied to every request.
type BookingPolicy struct {
	Open                  models.ClockTime
	Close                 models.ClockTime
	DurationMinutes       int
	PageSize              int
	RequireEndBeforeClose bool
	Location              *time.Location
}

func DefaultPolicy() BookingPolicy {
	return BookingPolicy{
		Open:            models.NewClockTime(10, 0),
		Close:           models.NewClockTime(22, 0),
		DurationMinutes: models.DefaultDurationMinutes,
		PageSize:        10,
		Location:        time.Local,
	}
}

func (p BookingPolicy) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

func (p BookingPolicy) duration() time.Duration {
	minutes := p.DurationMinutes
	if minutes <= 0 {
		minutes = models.DefaultDurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// CheckHours accepts start times between opening and closing, both
// inclusive. With RequireEndBeforeClose the whole slot has to fit.
func (p BookingPolicy) CheckHours(start models.ClockTime) error {
	outside := start < p.Open || start > p.Close
	if !outside && p.RequireEndBeforeClose {
		outside = start.Add(p.duration()) > p.Close
	}
	if outside {
		return invalid("time", i18n.KeyErrTimeHours, "open", p.Open.String(), "close", p.Close.String())
	}
	return nil
}

// FieldParser turns the free text typed in a conversation into booking
// fields. Each method returns a *ValidationError on bad input.
type FieldParser struct {
	Policy BookingPolicy
	Now    func() time.Time
}

func NewFieldParser(policy BookingPolicy, now func() time.Time) FieldParser {
	if now == nil {
		now = time.Now
	}
	return FieldParser{Policy: policy, Now: now}
}

var dateLayouts = []string{"2.1.2006", "2006-1-2"}

func (p FieldParser) Today() models.Date {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	return models.NewDate(now().In(p.Policy.location()))
}

func (p FieldParser) Date(input string) (models.Date, error) {
	s := strings.TrimSpace(input)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		d := models.NewDate(t)
		if err := p.CheckDate(d); err != nil {
			return models.Date{}, err
		}
		return d, nil
	}
	return models.Date{}, invalid("date", i18n.KeyErrDateFormat)
}

func (p FieldParser) CheckDate(d models.Date) error {
	if d.IsZero() {
		return invalid("date", i18n.KeyErrDateFormat)
	}
	if d.Before(p.Today()) {
		return invalid("date", i18n.KeyErrDatePast)
	}
	return nil
}

func (p FieldParser) Time(input string) (models.ClockTime, error) {
	s := strings.NewReplacer(" ", "", ".", ":").Replace(strings.TrimSpace(input))
	if len(s) == 4 && digitsOnly(s) {
		s = s[:2] + ":" + s[2:]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, invalid("time", i18n.KeyErrTimeFormat)
	}
	start := models.NewClockTime(t.Hour(), t.Minute())
	if err := p.Policy.CheckHours(start); err != nil {
		return 0, err
	}
	return start, nil
}

func (p FieldParser) Guests(input string) (int, error) {
	s := strings.ReplaceAll(strings.TrimSpace(input), " ", "")
	if !digitsOnly(s) {
		return 0, invalid("party_size", i18n.KeyErrGuestsNan)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < models.MinPartySize || n > models.MaxPartySize {
		return 0, invalid("party_size", i18n.KeyErrGuestsRange)
	}
	return n, nil
}

func (p FieldParser) Name(input string) (string, error) {
	name := strings.TrimSpace(input)
	if utf8.RuneCountInString(name) < 2 {
		return "", invalid("name", i18n.KeyErrNameShort)
	}
	return name, nil
}

func (p FieldParser) Phone(input string) (string, error) {
	phone := strings.TrimSpace(input)
	if utf8.RuneCountInString(phone) < 6 {
		return "", invalid("phone", i18n.KeyErrPhoneShort)
	}
	return phone, nil
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var validate = validator.New()

type requestFields struct {
	RequesterID int64  `validate:"required"`
	Name        string `validate:"min=2"`
	Phone       string `validate:"min=6"`
	PartySize   int    `validate:"min=1,max=30"`
}

var fieldKeys = map[string]struct{ field, key string }{
	"RequesterID": {"requester_id", i18n.KeyErrGeneric},
	"Name":        {"name", i18n.KeyErrNameShort},
	"Phone":       {"phone", i18n.KeyErrPhoneShort},
	"PartySize":   {"party_size", i18n.KeyErrGuestsRange},
}

// validateRequest applies the same rules as the conversation steps to
// a request that may have been assembled elsewhere.
func (p FieldParser) validateRequest(req BookingRequest) error {
	fields := requestFields{
		RequesterID: req.RequesterID,
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		PartySize:   req.PartySize,
	}
	if err := validate.Struct(fields); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fk := fieldKeys[verrs[0].StructField()]
			return invalid(fk.field, fk.key)
		}
		return err
	}
	if err := p.CheckDate(req.Date); err != nil {
		return err
	}
	return p.Policy.CheckHours(req.StartTime)
}
