package quiz

// answerPersistedMsg is sent when the write-through of one answer completes.
type answerPersistedMsg struct {
	Err error
}
