// Package seed holds the default data loaded when storage is empty and
// restored by the full reset operation.
package seed

import (
	"time"

	"github.com/google/uuid"

	"github.com/cabmed/cabmed/internal/domain/absence"
	"github.com/cabmed/cabmed/internal/domain/listsection"
	"github.com/cabmed/cabmed/internal/domain/patient"
	"github.com/cabmed/cabmed/internal/domain/supply"
	"github.com/cabmed/cabmed/internal/domain/user"
)

// Patients returns the demo patient records.
func Patients() []*patient.Patient {
	now := time.Now().UTC()
	return []*patient.Patient{
		{
			ID:            uuid.New(),
			PatientNumber: "P001",
			FirstName:     "Fatima",
			LastName:      "Alaoui",
			BirthDate:     "12/05/1985",
			Phone:         "0661234567",
			City:          "Rabat",
			Mutuelle:      "CNOPS",
			CreatedAt:     now,
		},
		{
			ID:            uuid.New(),
			PatientNumber: "P002",
			FirstName:     "Youssef",
			LastName:      "Benjelloun",
			BirthDate:     "03/11/1972",
			Phone:         "0662345678",
			City:          "Salé",
			Mutuelle:      "CNSS",
			CreatedAt:     now,
		},
	}
}

// Users returns the default accounts, one per fixed role.
func Users() []*user.User {
	now := time.Now().UTC()
	return []*user.User{
		{ID: uuid.New(), Username: "admin", Password: "admin123", Name: "Administrateur", Role: user.RoleAdmin, CreatedAt: now},
		{ID: uuid.New(), Username: "docteur", Password: "docteur123", Name: "Dr. Bennani", Role: user.RoleDocteur, Specialty: "Médecine générale", CreatedAt: now},
		{ID: uuid.New(), Username: "secretaire", Password: "secretaire123", Name: "Secrétariat", Role: user.RoleSecretaire, CreatedAt: now},
	}
}

func Supplies() []*supply.Supply {
	return nil
}

func Absences() []*absence.Absence {
	return nil
}

func section(title string, values ...string) *listsection.Section {
	items := make([]listsection.Item, len(values))
	for i, v := range values {
		items[i] = listsection.Item{ID: uuid.New(), Value: v}
	}
	return &listsection.Section{ID: uuid.New(), Title: title, Items: items}
}

// ListSections returns the six dropdown lists the forms start with.
func ListSections() []*listsection.Section {
	return []*listsection.Section{
		section("Types de consultation", "Consultation", "Contrôle", "Urgence", "Certificat"),
		section("Sources de rendez-vous", "Téléphone", "Sur place", "Site web", "Recommandation"),
		section("Villes", "Rabat", "Salé", "Témara", "Casablanca"),
		section("Mutuelles", "CNOPS", "CNSS", "FAR", "Aucune"),
		section("Antécédents médicaux", "Diabète", "Hypertension", "Asthme", "Allergie"),
		section("Rôles utilisateur", user.RoleAdmin, user.RoleDocteur, user.RoleSecretaire),
	}
}
