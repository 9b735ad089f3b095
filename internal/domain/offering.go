package domain

import "time"

// OfferingKind вид услуги в каталоге
type OfferingKind string

const (
	OfferingKindSession OfferingKind = "session"
	OfferingKindCohort  OfferingKind = "cohort"
)

// Offering услуга автора, которую можно забронировать
// Набор реализаций закрыт: SessionOffering и CohortSlotOffering
type Offering interface {
	OfferingID() int64
	OwnerID() int64
	// Duration собственная длительность услуги; false - использовать длительность из расписания
	Duration() (time.Duration, bool)
	Price() float64
	Currency() string

	offering()
}

// SessionOffering разовая сессия, длительность может быть не задана
type SessionOffering struct {
	ID              int64
	CreatorID       int64
	Name            string
	DurationMinutes *int
	Amount          float64
	CurrencyCode    string
}

func (s *SessionOffering) OfferingID() int64 { return s.ID }
func (s *SessionOffering) OwnerID() int64 { return s.CreatorID }
func (s *SessionOffering) Price() float64 { return s.Amount }
func (s *SessionOffering) Currency() string { return s.CurrencyCode }
func (s *SessionOffering) offering() {}

func (s *SessionOffering) Duration() (time.Duration, bool) {
	if s.DurationMinutes == nil || *s.DurationMinutes <= 0 {
		return 0, false
	}
	return time.Duration(*s.DurationMinutes) * time.Minute, true
}

// CohortSlotOffering слот курса с фиксированной длительностью занятия
type CohortSlotOffering struct {
	ID             int64
	CreatorID      int64
	Name           string
	SessionMinutes int
	Amount         float64
	CurrencyCode   string
}

func (c *CohortSlotOffering) OfferingID() int64 { return c.ID }
func (c *CohortSlotOffering) OwnerID() int64 { return c.CreatorID }
func (c *CohortSlotOffering) Price() float64 { return c.Amount }
func (c *CohortSlotOffering) Currency() string { return c.CurrencyCode }
func (c *CohortSlotOffering) offering() {}

func (c *CohortSlotOffering) Duration() (time.Duration, bool) {
	if c.SessionMinutes <= 0 {
		return 0, false
	}
	return time.Duration(c.SessionMinutes) * time.Minute, true
}

// ResolveDuration длительность слота: у услуги, иначе из расписания, иначе 30 минут
func ResolveDuration(o Offering, scheduleMinutes int) time.Duration {
	if o != nil {
		if d, ok := o.Duration(); ok {
			return d
		}
	}
	if scheduleMinutes > 0 {
		return time.Duration(scheduleMinutes) * time.Minute
	}
	return DefaultSlotDurationMinutes * time.Minute
}
