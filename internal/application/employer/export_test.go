package employer

import "time"

// SetClock fija el reloj en tests.
func (uc *EmployerUseCase) SetClock(now func() time.Time) { uc.now = now }
