package pipeline

import "fjacquet/sms-ledger/internal/smsfilter"

// Outcome is what happened to one raw message.
type Outcome int

const (
	Accepted Outcome = iota
	RejectedSender
	RejectedPromotional
	RejectedOTP
	RejectedReminder
	NotFinancial
	NoAmount
	// Invalid means extraction succeeded but the record broke a ledger invariant.
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case RejectedSender:
		return "rejected: sender not allow-listed"
	case RejectedPromotional:
		return "rejected: promotional"
	case RejectedOTP:
		return "rejected: otp"
	case RejectedReminder:
		return "rejected: reminder"
	case NotFinancial:
		return "not a financial message"
	case NoAmount:
		return "no amount found"
	case Invalid:
		return "invalid record"
	default:
		return "unknown"
	}
}

func fromVerdict(v smsfilter.Verdict) Outcome {
	switch v {
	case smsfilter.RejectedSender:
		return RejectedSender
	case smsfilter.RejectedPromotional:
		return RejectedPromotional
	case smsfilter.RejectedOTP:
		return RejectedOTP
	case smsfilter.RejectedReminder:
		return RejectedReminder
	default:
		return Accepted
	}
}
