package scrape

import (
	"strings"

	"pet-adoption-scraper/internal/domain/pets"
)

// normalizeRecord mapea un registro crudo del API al shape de pets.Pet.
// Mapeo puro: todo acceso es defensivo, un campo ausente o mal tipado
// produce "" / false / nil, nunca un error.
//
// El caller completa ID y timestamps; acá solo viaja lo que vino del API.
func normalizeRecord(raw map[string]any) pets.Pet {
	animal := subMap(raw, "animal")
	location := subMap(raw, "location")

	p := pets.Pet{
		Name:         strings.TrimSpace(str(animal, "name")),
		IsMixedBreed: boolean(animal, "is_mixed_breed"),
		PrimaryColor: strings.TrimSpace(str(animal, "primary_color")),
		Age:          strings.TrimSpace(str(animal, "age")),
		Sex:          strings.ToLower(strings.TrimSpace(str(animal, "sex"))),
		Size:         strings.ToLower(strings.TrimSpace(str(animal, "size"))),
		CoatLength:   strings.ToLower(strings.TrimSpace(str(animal, "coat_length"))),
		FeeWaived:    boolean(animal, "adoption_fee_waived"),
		PhotoURL:     strings.TrimSpace(str(animal, "primary_photo_cropped_url")),
	}

	p.PrimaryBreed = strings.TrimSpace(str(subMap(animal, "primary_breed"), "name"))
	p.SecondaryBreed = strings.TrimSpace(str(subMap(animal, "secondary_breed"), "name"))

	// Identificador de perfil: la share URL por mail. Si no viene, queda ""
	// y el upsert siempre inserta.
	p.ProfileURL = strings.TrimSpace(str(subMap(animal, "social_sharing"), "email_url"))

	// El fee puede venir numérico, string numérico, o basura: nil en los
	// casos no parseables.
	if fee, ok := number(animal, "public_adoption_fee"); ok {
		p.AdoptionFee = &fee
	}

	if location != nil {
		address := subMap(location, "address")
		p.City = strings.TrimSpace(str(address, "city"))
		p.State = strings.TrimSpace(str(address, "state"))
		p.PostalCode = strings.TrimSpace(str(address, "postal_code"))

		if g := subMap(location, "geo"); g != nil {
			if lat, ok := number(g, "latitude"); ok {
				p.Latitude = &lat
			}
			if lon, ok := number(g, "longitude"); ok {
				p.Longitude = &lon
			}
		}
	}

	return p
}
