package types

// HomeworkStatus is the review state reported by the homework API.
type HomeworkStatus string

const (
	HomeworkApproved  HomeworkStatus = "approved"
	HomeworkReviewing HomeworkStatus = "reviewing"
	HomeworkRejected  HomeworkStatus = "rejected"
)

// homeworkVerdicts holds the fixed human-readable text for each known status.
var homeworkVerdicts = map[HomeworkStatus]string{
	HomeworkApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	HomeworkReviewing: "Работа взята на проверку ревьюером.",
	HomeworkRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the verdict text for a known status.
func (s HomeworkStatus) Verdict() (string, bool) {
	v, ok := homeworkVerdicts[s]
	return v, ok
}

// IsValid reports whether the status belongs to the documented enumeration.
func (s HomeworkStatus) IsValid() bool {
	_, ok := homeworkVerdicts[s]
	return ok
}

// PollOutcome describes how a single poll iteration ended.
type PollOutcome string

const (
	OutcomeSent        PollOutcome = "sent"
	OutcomeUnchanged   PollOutcome = "unchanged"
	OutcomeNoUpdates   PollOutcome = "no_updates"
	// OutcomeUndelivered is a changed status whose delivery failed. It is not
	// an error; the next iteration tries again.
	OutcomeUndelivered PollOutcome = "undelivered"
	OutcomeFailed      PollOutcome = "failed"
)
