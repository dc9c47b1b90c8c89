package dashboard

// Unavailable is shown in a tile whose data could not be fetched.
const Unavailable = "—"

type Tile struct {
	Label string
	Value string
	Href  string
}

type PageData struct {
	UserName    string
	FactoryName string
	Today       string
	Tiles       []Tile
}
