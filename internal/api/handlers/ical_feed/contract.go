package ical_feed

import "context"

type FeedService interface {
	HostBookings(ctx context.Context, hostID int64) (string, error)
	HostAvailability(ctx context.Context, username string) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
