package calendar

import "clockwork/internal/core/model"

// DefaultHolidays returns the built-in 2025 Kenyan public holidays used when
// no calendar record or seed file exists.
func DefaultHolidays() map[string]model.Holiday {
	kenya := func(name string) model.Holiday {
		return model.Holiday{Name: name, Country: "KE", Emoji: "🇰🇪"}
	}
	return map[string]model.Holiday{
		"2025-01-01": kenya("New Year's Day"),
		"2025-03-30": kenya("Eid al-Fitr"),
		"2025-04-18": kenya("Good Friday"),
		"2025-04-21": kenya("Easter Monday"),
		"2025-05-01": kenya("Labour Day"),
		"2025-06-02": kenya("Madaraka Day"),
		"2025-06-07": kenya("Eid al-Adha"),
		"2025-10-10": kenya("Utamaduni Day"),
		"2025-10-20": kenya("Mashujaa Day"),
		"2025-12-12": kenya("Jamhuri Day"),
		"2025-12-25": kenya("Christmas Day"),
		"2025-12-26": kenya("Boxing Day"),
	}
}

// DefaultData returns a record holding only the default holidays.
func DefaultData() model.CalendarData {
	data := model.NewCalendarData()
	data.Holidays = DefaultHolidays()
	return data
}
