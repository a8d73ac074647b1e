package domain

import "fmt"

// InventoryLockKey ключ внутрипроцессной блокировки слотов хоста
func InventoryLockKey(hostID int64) string {
	return fmt.Sprintf("availability:%d", hostID)
}

// BookingLockKey ключ внутрипроцессной блокировки бронирований хоста
func BookingLockKey(hostID int64) string {
	return fmt.Sprintf("bookings:%d", hostID)
}
