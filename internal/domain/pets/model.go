package pets

import (
	"errors"
	"strings"
	"time"

	"pet-adoption-scraper/internal/domain/geo"
)

var ErrMixedBreedNeedsSecondary = errors.New("mixed breed pet requires secondary breed")

// Pet representa un listado de adopción scrapeado del servicio externo.
//
// ProfileURL es la clave natural para el upsert: cuando viene no-vacía, a lo
// sumo un Pet almacenado puede tenerla. El servicio externo no la garantiza
// presente, así que el match es opcional (ver scrape.saveBatch).
type Pet struct {
	ID string

	Name       string
	ProfileURL string
	PhotoURL   string

	PrimaryBreed   string
	SecondaryBreed string
	IsMixedBreed   bool

	PrimaryColor string
	Age          string
	Sex          string
	Size         string
	CoatLength   string

	AdoptionFee *float64
	FeeWaived   bool

	City       string
	State      string
	PostalCode string
	Latitude   *float64
	Longitude  *float64

	CreatedAt time.Time
	UpdatedAt time.Time
	ScrapedAt time.Time
}

// Validate aplica las reglas de escritura (no hay constraint a nivel storage).
func (p Pet) Validate() error {
	if p.IsMixedBreed && strings.TrimSpace(p.SecondaryBreed) == "" {
		return ErrMixedBreedNeedsSecondary
	}
	return nil
}

// Coords devuelve la ubicación del pet, o nil si falta alguna coordenada.
// nil deshabilita el filtro de distancia para esta entidad.
func (p Pet) Coords() *geo.Coordinates {
	if p.Latitude == nil || p.Longitude == nil {
		return nil
	}
	return &geo.Coordinates{Lat: *p.Latitude, Lon: *p.Longitude}
}

// DisplayLocation arma "City, ST" para presentación.
func (p Pet) DisplayLocation() string {
	city := strings.TrimSpace(p.City)
	state := strings.TrimSpace(p.State)

	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return "Location Unknown"
	}
}
