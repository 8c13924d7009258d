// Package holiday computes the Thai holiday calendar for a given year.
// The calculation is pure and deterministic: fixed-date holidays are exact,
// lunisolar observances come from a per-year lookup table with a crude
// fixed-date fallback for years outside the table.
package holiday

import (
	"sort"
	"time"

	"labstatus/internal/model"
)

type monthDay struct {
	month time.Month
	day   int
}

// Lunisolar dates vary year to year. The tables cover the years the portal
// realistically serves; anything outside falls back to a fixed approximation
// and is flagged Approximate on the resulting holiday.
var (
	makhaBucha = map[int]monthDay{
		2020: {time.February, 8},
		2021: {time.February, 26},
		2022: {time.February, 16},
		2023: {time.March, 6},
		2024: {time.February, 24},
		2025: {time.February, 12},
		2026: {time.March, 3},
		2027: {time.February, 21},
	}
	makhaFallback = monthDay{time.February, 15}

	visakhaBucha = map[int]monthDay{
		2020: {time.May, 6},
		2021: {time.May, 26},
		2022: {time.May, 15},
		2023: {time.June, 3},
		2024: {time.May, 22},
		2025: {time.May, 11},
		2026: {time.May, 31},
		2027: {time.May, 20},
	}
	visakhaFallback = monthDay{time.May, 15}

	asanhaBucha = map[int]monthDay{
		2020: {time.July, 5},
		2021: {time.July, 24},
		2022: {time.July, 13},
		2023: {time.August, 1},
		2024: {time.July, 20},
		2025: {time.July, 10},
		2026: {time.July, 29},
		2027: {time.July, 18},
	}
	asanhaFallback = monthDay{time.July, 20}

	chineseNewYear = map[int]monthDay{
		2020: {time.January, 25},
		2021: {time.February, 12},
		2022: {time.February, 1},
		2023: {time.January, 22},
		2024: {time.February, 10},
		2025: {time.January, 29},
		2026: {time.February, 17},
		2027: {time.February, 6},
	}
	chineseNewYearFallback = monthDay{time.February, 1}
)

func lunisolarDate(year int, table map[int]monthDay, fallback monthDay) (monthDay, bool) {
	if md, ok := table[year]; ok {
		return md, false
	}
	return fallback, true
}

func onDate(year int, md monthDay) time.Time {
	return time.Date(year, md.month, md.day, 0, 0, 0, 0, model.Bangkok())
}

// ForYear returns all Thai holidays for a calendar year, sorted by date.
// Holidays with AffectsBusiness=false appear in the list for display but
// never force a closure.
func ForYear(year int) []model.Holiday {
	hs := make([]model.Holiday, 0, 20)

	add := func(md monthDay, approximate bool, typ model.HolidayType, affects bool, names, desc model.LocalizedText) {
		hs = append(hs, model.Holiday{
			Names:           names,
			Date:            onDate(year, md),
			Type:            typ,
			AffectsBusiness: affects,
			Description:     desc,
			Approximate:     approximate,
		})
	}

	add(monthDay{time.January, 1}, false, model.HolidayNational, true,
		model.LocalizedText{TH: "วันขึ้นปีใหม่", DE: "Neujahrstag", EN: "New Year's Day"},
		model.LocalizedText{DE: "Erster Tag des Jahres", EN: "First day of the year"})

	cny, cnyApprox := lunisolarDate(year, chineseNewYear, chineseNewYearFallback)
	add(cny, cnyApprox, model.HolidayLocalEvent, false,
		model.LocalizedText{TH: "วันตรุษจีน", DE: "Chinesisches Neujahr", EN: "Chinese New Year"},
		model.LocalizedText{DE: "Fest der chinesischen Gemeinde, Labor geöffnet", EN: "Chinese community festival, the lab stays open"})

	makha, makhaApprox := lunisolarDate(year, makhaBucha, makhaFallback)
	add(makha, makhaApprox, model.HolidayBuddhist, true,
		model.LocalizedText{TH: "วันมาฆบูชา", DE: "Makha Bucha", EN: "Makha Bucha Day"},
		model.LocalizedText{DE: "Buddhistischer Feiertag am Vollmond des dritten Mondmonats", EN: "Buddhist full-moon observance of the third lunar month"})

	add(monthDay{time.April, 6}, false, model.HolidayRoyal, true,
		model.LocalizedText{TH: "วันจักรี", DE: "Chakri-Gedenktag", EN: "Chakri Memorial Day"},
		model.LocalizedText{DE: "Gedenktag der Chakri-Dynastie", EN: "Commemorates the founding of the Chakri dynasty"})

	songkranNames := model.LocalizedText{TH: "วันสงกรานต์", DE: "Songkran-Fest", EN: "Songkran Festival"}
	songkranDesc := model.LocalizedText{DE: "Thailändisches Neujahrsfest", EN: "Traditional Thai New Year festival"}
	add(monthDay{time.April, 13}, false, model.HolidayNational, true, songkranNames, songkranDesc)
	add(monthDay{time.April, 14}, false, model.HolidayNational, true, songkranNames, songkranDesc)
	add(monthDay{time.April, 15}, false, model.HolidayNational, true, songkranNames, songkranDesc)

	add(monthDay{time.May, 1}, false, model.HolidayNational, true,
		model.LocalizedText{TH: "วันแรงงานแห่งชาติ", DE: "Tag der Arbeit", EN: "National Labour Day"},
		model.LocalizedText{DE: "Gesetzlicher Feiertag für Arbeitnehmer", EN: "Public holiday for workers"})

	add(monthDay{time.May, 4}, false, model.HolidayRoyal, true,
		model.LocalizedText{TH: "วันฉัตรมงคล", DE: "Krönungstag", EN: "Coronation Day"},
		model.LocalizedText{DE: "Jahrestag der Krönung König Vajiralongkorns", EN: "Anniversary of the coronation of King Vajiralongkorn"})

	visakha, visakhaApprox := lunisolarDate(year, visakhaBucha, visakhaFallback)
	add(visakha, visakhaApprox, model.HolidayBuddhist, true,
		model.LocalizedText{TH: "วันวิสาขบูชา", DE: "Visakha Bucha", EN: "Visakha Bucha Day"},
		model.LocalizedText{DE: "Gedenktag an Geburt, Erleuchtung und Tod Buddhas", EN: "Commemorates the birth, enlightenment and passing of the Buddha"})

	add(monthDay{time.June, 3}, false, model.HolidayRoyal, true,
		model.LocalizedText{TH: "วันเฉลิมพระชนมพรรษาสมเด็จพระนางเจ้าสุทิดา", DE: "Geburtstag der Königin", EN: "H.M. Queen Suthida's Birthday"},
		model.LocalizedText{DE: "Geburtstag Königin Suthidas", EN: "Birthday of Queen Suthida"})

	asanha, asanhaApprox := lunisolarDate(year, asanhaBucha, asanhaFallback)
	add(asanha, asanhaApprox, model.HolidayBuddhist, true,
		model.LocalizedText{TH: "วันอาสาฬหบูชา", DE: "Asanha Bucha", EN: "Asanha Bucha Day"},
		model.LocalizedText{DE: "Gedenktag der ersten Predigt Buddhas", EN: "Commemorates the Buddha's first sermon"})

	// Buddhist Lent begins the day after Asanha Bucha, so it inherits the
	// table date and the fallback imprecision.
	khaoPhansa := monthDay{asanha.month, asanha.day}
	khaoPhansaDate := onDate(year, khaoPhansa).AddDate(0, 0, 1)
	hs = append(hs, model.Holiday{
		Names:           model.LocalizedText{TH: "วันเข้าพรรษา", DE: "Beginn der buddhistischen Fastenzeit", EN: "Buddhist Lent Day"},
		Date:            khaoPhansaDate,
		Type:            model.HolidayBuddhist,
		AffectsBusiness: true,
		Description:     model.LocalizedText{DE: "Beginn der dreimonatigen Regenzeit-Klausur", EN: "Start of the three-month Buddhist rains retreat"},
		Approximate:     asanhaApprox,
	})

	add(monthDay{time.July, 28}, false, model.HolidayRoyal, true,
		model.LocalizedText{TH: "วันเฉลิมพระชนมพรรษารัชกาลที่ 10", DE: "Geburtstag des Königs", EN: "H.M. King Vajiralongkorn's Birthday"},
		model.LocalizedText{DE: "Geburtstag König Vajiralongkorns", EN: "Birthday of King Vajiralongkorn"})

	add(monthDay{time.August, 12}, false, model.HolidayRoyal, true,
		model.LocalizedText{TH: "วันแม่แห่งชาติ", DE: "Muttertag", EN: "H.M. Queen Sirikit's Birthday (Mother's Day)"},
		model.LocalizedText{DE: "Geburtstag der Königinmutter Sirikit", EN: "Birthday of Queen Mother Sirikit"})

	add(monthDay{time.October, 13}, false, model.HolidayRoyal, true,
		model.LocalizedText{TH: "วันนวมินทรมหาราช", DE: "Gedenktag König Bhumibols", EN: "King Bhumibol Memorial Day"},
		model.LocalizedText{DE: "Todestag König Bhumibols", EN: "Anniversary of the passing of King Bhumibol"})

	add(monthDay{time.October, 23}, false, model.HolidayRoyal, true,
		model.LocalizedText{TH: "วันปิยมหาราช", DE: "Chulalongkorn-Gedenktag", EN: "Chulalongkorn Memorial Day"},
		model.LocalizedText{DE: "Gedenktag König Chulalongkorns", EN: "Commemorates King Chulalongkorn"})

	add(monthDay{time.December, 5}, false, model.HolidayRoyal, true,
		model.LocalizedText{TH: "วันพ่อแห่งชาติ", DE: "Vatertag", EN: "King Bhumibol's Birthday (Father's Day)"},
		model.LocalizedText{DE: "Geburtstag König Bhumibols", EN: "Birthday of the late King Bhumibol"})

	add(monthDay{time.December, 10}, false, model.HolidayNational, true,
		model.LocalizedText{TH: "วันรัฐธรรมนูญ", DE: "Tag der Verfassung", EN: "Constitution Day"},
		model.LocalizedText{DE: "Jahrestag der ersten Verfassung von 1932", EN: "Anniversary of the 1932 constitution"})

	add(monthDay{time.December, 31}, false, model.HolidayNational, true,
		model.LocalizedText{TH: "วันสิ้นปี", DE: "Silvester", EN: "New Year's Eve"},
		model.LocalizedText{DE: "Letzter Tag des Jahres", EN: "Last day of the year"})

	sort.Slice(hs, func(i, j int) bool { return hs[i].Date.Before(hs[j].Date) })
	return hs
}

// On returns the holiday falling on the given Bangkok calendar date, or nil.
// Both business-affecting and display-only holidays are returned; callers
// that decide closures must check AffectsBusiness themselves.
func On(date time.Time) *model.Holiday {
	for _, h := range ForYear(date.In(model.Bangkok()).Year()) {
		if model.SameDate(h.Date, date) {
			return &h
		}
	}
	return nil
}
