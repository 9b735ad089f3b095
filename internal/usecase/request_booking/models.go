package request_booking

import "time"

// Request модель запроса на бронирование
type Request struct {
	UserID    int64      // ID клиента
	CreatorID int64      // ID автора
	ServiceID int64      // ID услуги
	StartTime time.Time  // Начало слота
	EndTime   *time.Time // Конец слота (опционально, должен совпадать с началом + длительность)
	Customer  Customer
}

// Customer контактные данные клиента
type Customer struct {
	Email string
	Name  string
	Notes *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	CreatorID       int64
	CustomerID      int64
	ServiceID       int64
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Status          string
	Confirmed       bool
	Price           float64
	Currency        string
	Payment         *Payment // Заполняется для платных бронирований, если платеж создан
	Degraded        bool     // Бронирование создано, но часть побочных действий не выполнена
	Warnings        []string
	CreatedAt       time.Time
}

// Payment данные для оплаты pending бронирования
type Payment struct {
	Ref          string
	ClientSecret string
	Amount       int64 // В минимальных единицах валюты
	Currency     string
}
