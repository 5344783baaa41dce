package task

// Switch saves the calling execution into save and resumes resume.
//
// Switch does not return to its caller until a later Switch targets save;
// execution then continues after the call as if it had returned normally.
// Callers must not hold the task manager's exclusive access across the call,
// and both contexts must stay valid until it returns. A context is resumed at
// most once per save.
//
// Switching a context to itself is a no-op.
func Switch(save *TaskContext, resume *TaskContext) {
	if save == resume {
		return
	}
	if !resume.resumable() {
		panic("task: switch to a context with no resume point")
	}
	next := *resume

	wake := make(chan struct{})
	save.ra = nil
	save.wake = wake

	if next.wake != nil {
		close(next.wake)
	} else {
		go next.ra()
	}
	<-wake
}
