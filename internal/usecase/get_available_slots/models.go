package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SlotBooking/pkg/types"
)

// Request модель запроса слотов на один день
type Request struct {
	CreatorID int64     // ID автора
	Date      time.Time // Календарный день (учитываются только год, месяц и число)
	ServiceID *int64    // ID услуги, задающей длительность (опционально)
}

// Response модель ответа со слотами дня
type Response struct {
	Date            time.Time          // Запрошенный день
	Timezone        string             // Часовой пояс автора, в котором заданы слоты
	DurationMinutes int                // Длительность слота
	Slots           []types.TimeString // Начала свободных слотов, по возрастанию
}

// RangeRequest модель запроса слотов услуги за окно дат
type RangeRequest struct {
	ServiceID int64
	DateFrom  time.Time // Первый день окна
	DateTo    time.Time // Последний день окна, включительно
}

// RangeResponse модель ответа со слотами за окно дат
type RangeResponse struct {
	ServiceID       int64
	CreatorID       int64
	Timezone        string
	DurationMinutes int
	Slots           []WindowSlot
}

// WindowSlot слот в окне дат
type WindowSlot struct {
	Date      time.Time        // Локальный день автора
	Start     types.TimeString // Начало, настенное время автора
	End       types.TimeString // Конец, настенное время автора ("24:00" для полуночи)
	Timestamp time.Time        // Начало слота в UTC
}
