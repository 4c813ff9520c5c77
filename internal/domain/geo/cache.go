package geo

import "strings"

// cityCoordinates es la tabla estática de ciudades grandes. Evita pegarle al
// proveedor de geocoding para las búsquedas más comunes.
var cityCoordinates = map[cityKey]Coordinates{
	{"Seattle", "WA"}:       {47.6062, -122.3321},
	{"Atlanta", "GA"}:       {33.7490, -84.3880},
	{"New York", "NY"}:      {40.7128, -74.0060},
	{"Los Angeles", "CA"}:   {34.0522, -118.2437},
	{"Chicago", "IL"}:       {41.8781, -87.6298},
	{"Houston", "TX"}:       {29.7604, -95.3698},
	{"Phoenix", "AZ"}:       {33.4484, -112.0740},
	{"Philadelphia", "PA"}:  {39.9526, -75.1652},
	{"San Antonio", "TX"}:   {29.4241, -98.4936},
	{"San Diego", "CA"}:     {32.7157, -117.1611},
	{"Dallas", "TX"}:        {32.7767, -96.7970},
	{"San Jose", "CA"}:      {37.3382, -121.8863},
	{"Austin", "TX"}:        {30.2672, -97.7431},
	{"Jacksonville", "FL"}:  {30.3322, -81.6557},
	{"Fort Worth", "TX"}:    {32.7555, -97.3308},
	{"Columbus", "OH"}:      {39.9612, -82.9988},
	{"Charlotte", "NC"}:     {35.2271, -80.8431},
	{"San Francisco", "CA"}: {37.7749, -122.4194},
	{"Indianapolis", "IN"}:  {39.7684, -86.1581},
	{"Washington", "DC"}:    {38.9072, -77.0369},
}

type cityKey struct {
	City  string
	State string
}

// normalizeKey capitaliza la ciudad palabra por palabra y pasa el estado a
// mayúsculas, igual que la clave del cache original.
func normalizeKey(city, state string) cityKey {
	return cityKey{
		City:  titleWords(strings.TrimSpace(city)),
		State: strings.ToUpper(strings.TrimSpace(state)),
	}
}

// cachedCoordinates busca en la tabla estática. Match exacto sobre la clave
// normalizada.
func cachedCoordinates(city, state string) (Coordinates, bool) {
	c, ok := cityCoordinates[normalizeKey(city, state)]
	return c, ok
}

func titleWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
