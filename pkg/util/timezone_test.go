package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "valid UTC timezone", timezone: "UTC"},
		{name: "valid Asia/Jakarta timezone", timezone: WIB},
		{name: "valid Asia/Singapore timezone", timezone: SGT},
		{name: "valid Asia/Tokyo timezone", timezone: JST},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := GetLocation(tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, loc)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, loc)

			loc2, err2 := GetLocation(tt.timezone)
			assert.NoError(t, err2)
			assert.Equal(t, loc, loc2, "should return the same cached instance")
		})
	}
}

func TestParseInTimezone(t *testing.T) {
	tests := []struct {
		name     string
		layout   string
		value    string
		timezone string
		wantErr  bool
		validate func(t *testing.T, result time.Time)
	}{
		{
			name:     "parse date in Jakarta timezone",
			layout:   "2006-01-02 15:04:05",
			value:    "2024-12-25 14:30:45",
			timezone: WIB,
			validate: func(t *testing.T, result time.Time) {
				assert.Equal(t, 2024, result.Year())
				assert.Equal(t, time.December, result.Month())
				assert.Equal(t, 25, result.Day())
				assert.Equal(t, 14, result.Hour())
				assert.Equal(t, WIB, result.Location().String())
			},
		},
		{
			name:     "parse date only in Singapore timezone",
			layout:   "2006-01-02",
			value:    "2024-12-25",
			timezone: SGT,
			validate: func(t *testing.T, result time.Time) {
				assert.Equal(t, 25, result.Day())
				assert.Equal(t, SGT, result.Location().String())
			},
		},
		{
			name:     "invalid date format",
			layout:   "2006-01-02",
			value:    "invalid-date",
			timezone: WIB,
			wantErr:  true,
		},
		{
			name:     "invalid timezone",
			layout:   "2006-01-02",
			value:    "2024-12-25",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseInTimezone(tt.layout, tt.value, tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}

func TestGetTimezoneByAirport(t *testing.T) {
	tests := []struct {
		name    string
		airport string
		want    string
	}{
		{name: "Jakarta is WIB", airport: "CGK", want: WIB},
		{name: "Denpasar is WITA", airport: "DPS", want: WITA},
		{name: "Jayapura is WIT", airport: "DJJ", want: WIT},
		{name: "Singapore is SGT", airport: "SIN", want: SGT},
		{name: "Tokyo Narita is JST", airport: "NRT", want: JST},
		{name: "London Heathrow is GMT", airport: "LHR", want: GMT},
		{name: "New York JFK is EST", airport: "JFK", want: EST},
		{name: "unknown airport falls back to WIB", airport: "ZZZ", want: WIB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetTimezoneByAirport(tt.airport))
		})
	}
}

func TestConcurrentGetLocation(t *testing.T) {
	const goroutines = 100
	done := make(chan bool, goroutines)

	timezones := []string{WIB, SGT, JST, UTC, WITA, WIT, GMT, EST}
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer func() { done <- true }()
			tz := timezones[id%len(timezones)]
			loc, err := GetLocation(tz)
			assert.NoError(t, err)
			assert.NotNil(t, loc)
		}(i)
	}

	for i := 0; i < goroutines; i++ {
		<-done
	}
}
