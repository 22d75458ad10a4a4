package models

// Patient is a podiatry patient record.
type Patient struct {
	BaseModel
	Name         string `gorm:"size:255;not null;index" json:"name"`
	Address      string `gorm:"size:255" json:"address"`
	Neighborhood string `gorm:"size:120" json:"neighborhood"`
	City         string `gorm:"size:120" json:"city"`
	State        string `gorm:"size:60" json:"state"`
	CEP          string `gorm:"column:cep;size:20" json:"cep"`
	BirthDate    string `gorm:"size:10" json:"birth_date"`
	Sex          string `gorm:"size:20" json:"sex"`
	Profession   string `gorm:"size:120" json:"profession"`
	Contact      string `gorm:"size:40;index" json:"contact"`
	CPF          string `gorm:"column:cpf;size:20;index" json:"cpf,omitempty"`
}
