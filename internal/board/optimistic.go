package board

// Apply sets a tentative value, runs commit, and restores the prior value if
// commit fails. The restore happens before Apply returns, so callers never
// observe the tentative value alongside the failure.
func Apply[T any](get func() T, set func(T), tentative T, commit func() error) error {
	prev := get()
	set(tentative)
	if err := commit(); err != nil {
		set(prev)
		return err
	}
	return nil
}
