package authoring

// Reference data the authoring form is built from. Fetched once per
// session; ids are opaque strings assigned by the server.

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Port is a selectable product variant option (the storefront sells tech
// gear; ports are its variant axis).
type Port struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ReferenceData struct {
	Categories []Category
	Brands     []Brand
	Ports      []Port
}
