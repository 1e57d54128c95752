package model

// Venue is a restaurant record in the `venues` table. Venue rows are
// produced by the catalog importer and are treated as read-only
// reference data by the booking flow. The AvailableOnline flag is the
// sole input to fulfillment routing: venues that support automated
// online reservation go to the online queue, everything else goes to
// the call queue.
//
// Fields:
//  ID              – UUID primary key.
//  Name            – display name of the venue.
//  Phone           – contact phone used by the call-queue workers.
//  Address         – street address.
//  Type            – venue category (restaurant, bar, cafe ...).
//  AverageCheck    – free-form average check description.
//  Description     – marketing description shown in search results.
//  Lat, Lon        – coordinates, zero when unknown.
//  SourceURL       – listing page this venue was imported from (unique).
//  SourceDomain    – domain of the listings site.
//  AvailableOnline – true when the venue supports automated booking.
type Venue struct {
	ID              string  // venues.id
	Name            string  // venues.name
	Phone           string  // venues.phone
	Address         string  // venues.address
	Type            string  // venues.type
	AverageCheck    string  // venues.average_check
	Description     string  // venues.description
	Lat             float64 // venues.lat
	Lon             float64 // venues.lon
	SourceURL       string  // venues.source_url
	SourceDomain    string  // venues.source_domain
	AvailableOnline bool    // venues.available_online
}
