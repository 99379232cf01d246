package models

type Kafla struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Province     string `json:"province"`
	Country      string `json:"country"`
	SalarName    string `json:"salar_name"`
	SalarCNIC    string `json:"salar_cnic"`
	SalarContact string `json:"salar_contact"`
	CreatedAt    string `json:"created_at"`
}

// Label is the display form used by group pickers and reports,
// e.g. "Moakab e Zainabiya (Syed Ali Raza)".
func (k Kafla) Label() string {
	return k.Name + " (" + k.SalarName + ")"
}
