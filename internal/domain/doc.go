// Package domain contains the core types of the trip search service: places,
// itineraries, traveller counts, filters and the outgoing search request.
// It depends on nothing inside this module and is imported by every other
// internal package.
package domain
