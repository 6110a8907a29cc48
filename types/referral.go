package types

type Doctor struct {
	Name       string `json:"name"`
	Experience int    `json:"experience"`
	Available  bool   `json:"available"`
}

type Referral struct {
	Department Department `json:"department"`
	Doctors    []Doctor   `json:"doctors"`
}
