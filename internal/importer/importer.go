// Package importer loads venue catalog data from a listings export
// file into the database. The scraping job that produces the file runs
// elsewhere; this side only consumes its JSON output, so re-running an
// import is idempotent (venues are keyed by source URL).
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/restomap/booking-backend/internal/model"
	"github.com/restomap/booking-backend/internal/repository"
)

// venueRecord mirrors one entry of the listings export file.
type venueRecord struct {
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Address         string  `json:"address"`
	Type            string  `json:"type"`
	AverageCheck    string  `json:"average_check"`
	Description     string  `json:"description"`
	Lat             float64 `json:"coordinates_lat"`
	Lon             float64 `json:"coordinates_lon"`
	SourceURL       string  `json:"source_url"`
	AvailableOnline bool    `json:"available_online"`
}

// Importer upserts venue rows from export files.
type Importer struct {
	Venues *repository.VenueRepo
}

func New(v *repository.VenueRepo) *Importer { return &Importer{Venues: v} }

// ImportFile reads a JSON array of venue records from path and upserts
// each into the catalog. Records without a name or source URL are
// skipped and logged rather than aborting the whole file, because a
// single malformed listing must not block the weekly refresh. Returns
// the number of imported rows.
func (i *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read import file: %w", err)
	}
	var records []venueRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("parse import file: %w", err)
	}

	imported := 0
	for n, rec := range records {
		if rec.Name == "" || rec.SourceURL == "" {
			log.Printf("importer: skipping record %d: missing name or source_url", n)
			continue
		}
		v := model.Venue{
			Name:            rec.Name,
			Phone:           rec.Phone,
			Address:         rec.Address,
			Type:            rec.Type,
			AverageCheck:    rec.AverageCheck,
			Description:     rec.Description,
			Lat:             rec.Lat,
			Lon:             rec.Lon,
			SourceURL:       rec.SourceURL,
			SourceDomain:    domainOf(rec.SourceURL),
			AvailableOnline: rec.AvailableOnline,
		}
		if err := i.Venues.UpsertBySourceURL(ctx, v); err != nil {
			return imported, fmt.Errorf("upsert venue %q: %w", rec.Name, err)
		}
		imported++
	}
	log.Printf("importer: imported %d of %d records from %s", imported, len(records), path)
	return imported, nil
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
