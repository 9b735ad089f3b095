package get_available_slots

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CreatorID <= 0 {
		return fmt.Errorf("%w: creatorID must be positive", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateRangeRequest проверяет окно дат и возвращает число дней в нем
func validateRangeRequest(req *RangeRequest, maxDays int) (int, error) {
	if req.ServiceID <= 0 {
		return 0, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return 0, fmt.Errorf("%w: dateFrom and dateTo are required", ErrInvalidInput)
	}

	from, to := civilDate(req.DateFrom), civilDate(req.DateTo)
	if to.Before(from) {
		return 0, fmt.Errorf("%w: dateTo is before dateFrom", ErrInvalidInput)
	}

	days := int(to.Sub(from).Hours()/24) + 1
	if days > maxDays {
		return 0, fmt.Errorf("%w: at most %d days per request", ErrWindowTooLarge, maxDays)
	}

	return days, nil
}
