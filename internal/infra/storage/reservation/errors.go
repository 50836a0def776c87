package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrTableAlreadyClaimed возвращается, когда стол уже занят на этот момент (нарушение reservation_tables_claim_key)
	ErrTableAlreadyClaimed = errors.New("reservation.repository: table already claimed")

	// ErrDuplicateBookingID возвращается при повторе booking_id
	ErrDuplicateBookingID = errors.New("reservation.repository: duplicate booking id")

	// ErrStatusChanged возвращается, когда условное обновление статуса не затронуло ни одной строки
	ErrStatusChanged = errors.New("reservation.repository: status changed concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
