package models

// PatientSummary mirrors the patient service's patient resource.
type PatientSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Disease  string `json:"disease"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Admitted bool   `json:"admitted"`
	Address  string `json:"address,omitempty"`
	DoctorID int64  `json:"doctorId,omitempty"`
}

type DoctorSummary struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Specialty       string `json:"specialty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Qualification   string `json:"qualification"`
	Experience      int    `json:"experience,omitempty"`
	Department      string `json:"department,omitempty"`
	ConsultationFee string `json:"consultationFee,omitempty"`
	Available       bool   `json:"available"`
}

// AppointmentSummary keeps DateTime as the literal string sent by the
// appointment service so replies show it exactly as stored.
type AppointmentSummary struct {
	ID        int64  `json:"id"`
	DateTime  string `json:"dateTime"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	PatientID int64  `json:"patientId"`
	DoctorID  int64  `json:"doctorId"`
}
