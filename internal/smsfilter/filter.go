// Package smsfilter decides whether a raw message is a candidate financial
// notification worth running through extraction.
package smsfilter

import (
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/patterns"
)

// Verdict is the reason a message was kept or dropped.
type Verdict int

const (
	// Candidate means the message passed every gate.
	Candidate Verdict = iota
	// RejectedSender means the sender is not on the allow-list.
	RejectedSender
	// RejectedPromotional means the body contains marketing language.
	RejectedPromotional
	// RejectedOTP means the body is a verification code.
	RejectedOTP
	// RejectedReminder means the body describes a future or pending obligation.
	RejectedReminder
)

func (v Verdict) String() string {
	switch v {
	case Candidate:
		return "candidate"
	case RejectedSender:
		return "sender not allow-listed"
	case RejectedPromotional:
		return "promotional"
	case RejectedOTP:
		return "otp"
	case RejectedReminder:
		return "reminder"
	default:
		return "unknown"
	}
}

// Decision carries the verdict and, for keyword rejections, the keyword that matched.
type Decision struct {
	Verdict Verdict
	Keyword string
}

// Accepted reports whether the message is a candidate.
func (d Decision) Accepted() bool { return d.Verdict == Candidate }

// Filter applies the gates of a pattern library. It is stateless and safe
// for concurrent use.
type Filter struct {
	lib *patterns.Library
}

// New creates a Filter over lib, using the built-in library when lib is nil.
func New(lib *patterns.Library) *Filter {
	if lib == nil {
		lib = patterns.Default()
	}
	return &Filter{lib: lib}
}

// Check runs the gates in order and stops at the first rejection.
func (f *Filter) Check(msg models.RawMessage) Decision {
	if !f.lib.SenderAllowed(msg.Sender) {
		return Decision{Verdict: RejectedSender}
	}

	gates := []struct {
		set     patterns.KeywordSet
		verdict Verdict
	}{
		{f.lib.Promotional, RejectedPromotional},
		{f.lib.OTP, RejectedOTP},
		{f.lib.Reminder, RejectedReminder},
	}
	for _, g := range gates {
		if kw, ok := g.set.Find(msg.Body); ok {
			return Decision{Verdict: g.verdict, Keyword: kw}
		}
	}
	return Decision{Verdict: Candidate}
}

// IsCandidate reports whether msg passes every gate.
func (f *Filter) IsCandidate(msg models.RawMessage) bool {
	return f.Check(msg).Accepted()
}
