package present

func OverloadDrainIdle(overload func()) func() {
	drainIdleRef := drainIdle
	drainIdle = overload
	return func() { drainIdle = drainIdleRef }
}
