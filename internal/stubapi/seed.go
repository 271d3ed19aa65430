package stubapi

// Lead is a generation target held by the stub. The production collaborator
// imports leads from CSV; here a fixed sample is enough.
type Lead struct {
	ID        int
	FullName  string
	Email     string
	Phone     string
	Specialty string
	City      string
}

// Placeholders exposes the lead fields available to template rendering.
func (l Lead) Placeholders() map[string]string {
	return map[string]string{
		"name":      l.FullName,
		"full_name": l.FullName,
		"email":     l.Email,
		"phone":     l.Phone,
		"specialty": l.Specialty,
		"city":      l.City,
	}
}

// SeedLeads returns the default sample leads used by cmd/stubserver.
func SeedLeads() []Lead {
	return []Lead{
		{ID: 1, FullName: "Dr. Amina Benali", Email: "amina.benali@example.com", Phone: "+213550000001", Specialty: "Cardiology", City: "Algiers"},
		{ID: 2, FullName: "Dr. Karim Haddad", Email: "karim.haddad@example.com", Phone: "+213550000002", Specialty: "Dentistry", City: "Oran"},
		{ID: 3, FullName: "Dr. Lina Mansouri", Email: "lina.mansouri@example.com", Phone: "+213550000003", Specialty: "Dermatology", City: "Constantine"},
		{ID: 4, FullName: "Dr. Yacine Brahimi", Email: "", Phone: "+213550000004", Specialty: "Pediatrics", City: "Annaba"},
		{ID: 5, FullName: "Dr. Sara Cherif", Email: "sara.cherif@example.com", Phone: "", Specialty: "Ophthalmology", City: "Blida"},
	}
}
