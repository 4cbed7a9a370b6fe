package attendance

import "time"

// SetClock fija el reloj del recorder en tests.
func (r *Recorder) SetClock(now func() time.Time) { r.now = now }
