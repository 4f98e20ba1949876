package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		want string
		size int64
	}{
		{"0 B", 0},
		{"1023 B", 1023},
		{"1.0 KB", 1024},
		{"1.5 KB", 1536},
		{"2.0 MB", 2 * 1024 * 1024},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFileSize(tt.size))
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2024, 3, 31, 20, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		want string
		ago  time.Duration
	}{
		{"seconds", "just now", 30 * time.Second},
		{"one minute", "1 minute ago", time.Minute},
		{"minutes", "5 minutes ago", 5 * time.Minute},
		{"hours", "3 hours ago", 3 * time.Hour},
		{"yesterday", "yesterday", 30 * time.Hour},
		{"days", "3 days ago", 72 * time.Hour},
		{"old", "2024-03-01 20:00", 30 * 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatRelativeTime(now.Add(-tt.ago), now))
		})
	}
}
