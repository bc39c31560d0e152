package catalog

import "github.com/pkordes/tripsearch/backend/internal/domain"

func airport(code, name, city, country string) domain.Place {
	return domain.Place{Code: code, DisplayName: name, City: city, Country: country, Kind: domain.PlaceAirport}
}

func city(code, city, country string) domain.Place {
	return domain.Place{Code: code, DisplayName: city + " (all airports)", City: city, Country: country, Kind: domain.PlaceCity}
}

// builtin is the offline fallback list, ordered roughly by how often the
// destination is searched so TopN gives a sensible browse list.
var builtin = []domain.Place{
	// Africa
	airport("LOS", "Murtala Muhammed International Airport", "Lagos", "Nigeria"),
	airport("ABV", "Nnamdi Azikiwe International Airport", "Abuja", "Nigeria"),
	airport("PHC", "Port Harcourt International Airport", "Port Harcourt", "Nigeria"),
	airport("KAN", "Mallam Aminu Kano International Airport", "Kano", "Nigeria"),
	airport("ACC", "Kotoka International Airport", "Accra", "Ghana"),
	airport("NBO", "Jomo Kenyatta International Airport", "Nairobi", "Kenya"),
	airport("JNB", "O. R. Tambo International Airport", "Johannesburg", "South Africa"),
	airport("CPT", "Cape Town International Airport", "Cape Town", "South Africa"),
	airport("CAI", "Cairo International Airport", "Cairo", "Egypt"),
	airport("ADD", "Addis Ababa Bole International Airport", "Addis Ababa", "Ethiopia"),
	airport("CMN", "Mohammed V International Airport", "Casablanca", "Morocco"),
	airport("DSS", "Blaise Diagne International Airport", "Dakar", "Senegal"),

	// Europe
	city("LON", "London", "United Kingdom"),
	airport("LHR", "Heathrow Airport", "London", "United Kingdom"),
	airport("LGW", "Gatwick Airport", "London", "United Kingdom"),
	airport("MAN", "Manchester Airport", "Manchester", "United Kingdom"),
	city("PAR", "Paris", "France"),
	airport("CDG", "Charles de Gaulle Airport", "Paris", "France"),
	airport("FRA", "Frankfurt Airport", "Frankfurt", "Germany"),
	airport("AMS", "Amsterdam Airport Schiphol", "Amsterdam", "Netherlands"),
	airport("MAD", "Adolfo Suárez Madrid–Barajas Airport", "Madrid", "Spain"),
	airport("FCO", "Leonardo da Vinci–Fiumicino Airport", "Rome", "Italy"),
	airport("IST", "Istanbul Airport", "Istanbul", "Turkey"),
	airport("ZRH", "Zurich Airport", "Zurich", "Switzerland"),

	// Middle East
	airport("DXB", "Dubai International Airport", "Dubai", "United Arab Emirates"),
	airport("DOH", "Hamad International Airport", "Doha", "Qatar"),
	airport("AUH", "Zayed International Airport", "Abu Dhabi", "United Arab Emirates"),
	airport("JED", "King Abdulaziz International Airport", "Jeddah", "Saudi Arabia"),

	// Americas
	city("NYC", "New York", "United States"),
	airport("JFK", "John F. Kennedy International Airport", "New York", "United States"),
	airport("EWR", "Newark Liberty International Airport", "Newark", "United States"),
	airport("ATL", "Hartsfield–Jackson Atlanta International Airport", "Atlanta", "United States"),
	airport("LAX", "Los Angeles International Airport", "Los Angeles", "United States"),
	airport("ORD", "O'Hare International Airport", "Chicago", "United States"),
	airport("IAH", "George Bush Intercontinental Airport", "Houston", "United States"),
	airport("MIA", "Miami International Airport", "Miami", "United States"),
	airport("SFO", "San Francisco International Airport", "San Francisco", "United States"),
	airport("YYZ", "Toronto Pearson International Airport", "Toronto", "Canada"),
	airport("MEX", "Mexico City International Airport", "Mexico City", "Mexico"),
	airport("GRU", "São Paulo/Guarulhos International Airport", "São Paulo", "Brazil"),

	// Asia Pacific
	airport("SIN", "Singapore Changi Airport", "Singapore", "Singapore"),
	airport("HKG", "Hong Kong International Airport", "Hong Kong", "Hong Kong"),
	airport("NRT", "Narita International Airport", "Tokyo", "Japan"),
	airport("HND", "Haneda Airport", "Tokyo", "Japan"),
	airport("ICN", "Incheon International Airport", "Seoul", "South Korea"),
	airport("PEK", "Beijing Capital International Airport", "Beijing", "China"),
	airport("BKK", "Suvarnabhumi Airport", "Bangkok", "Thailand"),
	airport("DEL", "Indira Gandhi International Airport", "Delhi", "India"),
	airport("BOM", "Chhatrapati Shivaji Maharaj International Airport", "Mumbai", "India"),
	airport("SYD", "Sydney Kingsford Smith Airport", "Sydney", "Australia"),
	airport("CGK", "Soekarno–Hatta International Airport", "Jakarta", "Indonesia"),
	airport("DPS", "Ngurah Rai International Airport", "Denpasar", "Indonesia"),
}
