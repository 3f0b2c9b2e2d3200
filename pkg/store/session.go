package store

import "time"

// Exchange is one question/answer round within a caller session.
type Exchange struct {
	Query        string
	Answer       string
	TraceID      string
	Attempts     int
	IsAnswerable bool
	AskedAt      time.Time
}

// Session correlates exchanges for callers that supply a session id. The
// pipeline itself is stateless across invocations; this exists for the
// history endpoint only.
type Session struct {
	ID        string
	Exchanges []Exchange
}

const maxExchanges = 20

// Append records an exchange, keeping only the most recent ones.
func (s *Session) Append(e Exchange) {
	s.Exchanges = append(s.Exchanges, e)
	if len(s.Exchanges) > maxExchanges {
		s.Exchanges = s.Exchanges[len(s.Exchanges)-maxExchanges:]
	}
}
