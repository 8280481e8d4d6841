package domain

type Station struct {
	ID          string
	Name        string
	Address     string
	CountryCode string
	Timezone    string
}
