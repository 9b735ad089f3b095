package pgerrors

import (
	"database/sql/driver"
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, которые классифицирует сервис
const (
	CodeUniqueViolation      pq.ErrorCode = "23505"
	CodeExclusionViolation   pq.ErrorCode = "23P01"
	CodeSerializationFailure pq.ErrorCode = "40001"
	CodeDeadlockDetected     pq.ErrorCode = "40P01"
	CodeAdminShutdown        pq.ErrorCode = "57P01"
	CodeCrashShutdown        pq.ErrorCode = "57P02"
	CodeCannotConnectNow     pq.ErrorCode = "57P03"

	classConnectionException pq.ErrorClass = "08"
)

// Code возвращает код ошибки PostgreSQL из цепочки ошибок или пустую строку
func Code(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// IsOverlapViolation сообщает, что вставка нарушила exclusion- или unique-ограничение
func IsOverlapViolation(err error) bool {
	code := Code(err)
	return code == CodeExclusionViolation || code == CodeUniqueViolation
}

// IsRetryable сообщает, что транзакцию можно повторить целиком
func IsRetryable(err error) bool {
	code := Code(err)
	return code == CodeSerializationFailure || code == CodeDeadlockDetected
}

// IsUnavailable сообщает о недоступности базы данных
func IsUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case CodeAdminShutdown, CodeCrashShutdown, CodeCannotConnectNow:
		return true
	}
	return pqErr.Code.Class() == classConnectionException
}
