package models

// GeneralData holds the general section of the intake form.
type GeneralData struct {
	ChiefComplaint            string `gorm:"type:text" json:"chief_complaint"`
	PodiatristFrequency       string `gorm:"size:120" json:"podiatrist_frequency"`
	Medications               bool   `json:"medications"`
	MedicationDetails         string `gorm:"type:text" json:"medication_details"`
	Allergies                 bool   `json:"allergies"`
	AllergyDetails            string `gorm:"type:text" json:"allergy_details"`
	WorkPosition              string `gorm:"size:120" json:"work_position"`
	Insoles                   bool   `json:"insoles"`
	Smoking                   bool   `json:"smoking"`
	Pregnant                  bool   `json:"pregnant"`
	Breastfeeding             bool   `json:"breastfeeding"`
	PhysicalActivity          bool   `json:"physical_activity"`
	PhysicalActivityFrequency string `gorm:"size:120" json:"physical_activity_frequency"`
	FootwearType              string `gorm:"size:120" json:"footwear_type"`
	DailyFootwearType         string `gorm:"size:120" json:"daily_footwear_type"`
}

// ClinicalData holds the medical conditions checklist.
type ClinicalData struct {
	Gestante                            bool `json:"gestante"`
	Osteoporose                         bool `json:"osteoporose"`
	Cardiopatia                         bool `json:"cardiopatia"`
	MarcaPasso                          bool `json:"marca_passo"`
	Hipertireoidismo                    bool `json:"hipertireoidismo"`
	Hipotireoidismo                     bool `json:"hipotireoidismo"`
	Hipertensao                         bool `json:"hipertensao"`
	Hipotensao                          bool `json:"hipotensao"`
	Renal                               bool `json:"renal"`
	Neuropatia                          bool `json:"neuropatia"`
	Reumatismo                          bool `json:"reumatismo"`
	QuimioterapiaRadioterapia           bool `json:"quimioterapia_radioterapia"`
	AntecedentesOncologicos             bool `json:"antecedentes_oncologicos"`
	CirurgiaMMII                        bool `gorm:"column:cirurgia_mmii" json:"cirurgia_mmii"`
	AlteracoesComprometimentoVasculares bool `json:"alteracoes_comprometimento_vasculares"`

	Diabetes             bool   `json:"diabetes"`
	DiabetesType         string `gorm:"size:40" json:"diabetes_type"`
	GlucoseLevel         string `gorm:"size:40" json:"glucose_level"`
	LastVerificationDate string `gorm:"size:20" json:"last_verification_date"`

	Insulin     bool   `json:"insulin"`
	InsulinType string `gorm:"size:40" json:"insulin_type"` // injectable or oral

	Diet     bool   `json:"diet"`
	DietType string `gorm:"size:120" json:"diet_type"`
}

// ResponsibilityTerm is the signed consent attached to an anamnesis.
type ResponsibilityTerm struct {
	PatientName string `gorm:"size:255" json:"patient_name"`
	RG          string `gorm:"column:rg;size:30" json:"rg"`
	CPF         string `gorm:"column:cpf;size:20" json:"cpf"`
	Signature   string `gorm:"type:longtext" json:"signature"` // base64 image
	Date        string `gorm:"size:20" json:"date"`
}

// Anamnesis is a structured clinical intake form for a patient.
type Anamnesis struct {
	BaseModel
	PatientID          string             `gorm:"size:36;index;not null" json:"patient_id"`
	GeneralData        GeneralData        `gorm:"embedded;embeddedPrefix:general_" json:"general_data"`
	ClinicalData       ClinicalData       `gorm:"embedded;embeddedPrefix:clinical_" json:"clinical_data"`
	ResponsibilityTerm ResponsibilityTerm `gorm:"embedded;embeddedPrefix:term_" json:"responsibility_term"`
	Observations       string             `gorm:"type:text" json:"observations"`
}

// TableName keeps the collection name used by the clinic since launch.
func (Anamnesis) TableName() string {
	return "anamnesis"
}
