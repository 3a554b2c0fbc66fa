package quran

import (
	"github.com/reciteapp/recite-server/internal/domain"
)

// Wire types mirroring the provider's response envelope. Every endpoint
// wraps its payload in {code, status, data}.

type listResponse struct {
	Code   int          `json:"code"`
	Status string       `json:"status"`
	Data   []RawChapter `json:"data"`
}

type chapterResponse struct {
	Code   int               `json:"code"`
	Status string            `json:"status"`
	Data   rawChapterDetail `json:"data"`
}

type searchResponse struct {
	Code   int           `json:"code"`
	Status string        `json:"status"`
	Data   rawSearchData `json:"data"`
}

type RawChapter struct {
	Number                 int    `json:"number"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	NumberOfAyahs          int    `json:"numberOfAyahs"`
	RevelationType         string `json:"revelationType"`
}

type rawChapterDetail struct {
	RawChapter
	Ayahs []rawAyah `json:"ayahs"`
}

type rawAyah struct {
	Number        int    `json:"number"`
	NumberInSurah int    `json:"numberInSurah"`
	Text          string `json:"text"`
}

type rawSearchData struct {
	Count   int        `json:"count"`
	Matches []rawMatch `json:"matches"`
}

type rawMatch struct {
	Number        int        `json:"number"`
	NumberInSurah int        `json:"numberInSurah"`
	Text          string     `json:"text"`
	Surah         RawChapter `json:"surah"`
}

// toChapter maps a provider chapter record to the domain type.
func (r *RawChapter) toChapter() domain.Chapter {
	place := domain.RevelationMedina
	if r.RevelationType == "Meccan" {
		place = domain.RevelationMecca
	}
	return domain.Chapter{
		ID:              r.Number,
		Name:            r.EnglishName,
		NameArabic:      r.Name,
		NameTranslation: r.EnglishNameTranslation,
		RevelationPlace: place,
		TotalVerses:     r.NumberOfAyahs,
	}
}
