package clinic

import (
	"context"
	"fmt"
	"time"
)

func strPtr(s string) *string { return &s }

// SeedDemo loads a small clinic so a fresh in-memory server has something to show.
// Appointments are placed on day, usually today.
func SeedDemo(ctx context.Context, repo Repository, day time.Time) error {
	date := day.Format(DateLayout)

	staff := []*Staff{
		{Name: "Dr. Amelia Hart", Role: RoleDentist, Specialization: strPtr("General dentistry"), Phone: "+1-555-0101", Telegram: strPtr("ahart"), Status: StaffActive},
		{Name: "Dr. Rahul Mehta", Role: RoleDentist, Specialization: strPtr("Endodontics"), Phone: "+1-555-0102", Status: StaffActive},
		{Name: "Dr. Sofia Lind", Role: RoleDentist, Specialization: strPtr("Orthodontics"), Phone: "+1-555-0103", Status: StaffOnLeave},
		{Name: "Nina Petrova", Role: RoleHygienist, Phone: "+1-555-0104", Status: StaffActive},
		{Name: "Leo Grant", Role: RoleReceptionist, Phone: "+1-555-0105", Telegram: strPtr("leo_front"), Status: StaffActive},
	}
	for _, s := range staff {
		if err := repo.CreateStaff(ctx, s); err != nil {
			return fmt.Errorf("seed staff: %w", err)
		}
	}

	patients := []*Patient{
		{Name: "John Carter", Phone: "+1-555-0201", Email: strPtr("john.carter@example.com"), DateOfBirth: strPtr("1985-04-12"), Allergies: []string{"penicillin"}},
		{Name: "Maria Gomez", Phone: "+1-555-0202", DateOfBirth: strPtr("1992-09-30"), Allergies: []string{}},
		{Name: "Wei Chen", Phone: "+1-555-0203", Email: strPtr("wei.chen@example.com"), DateOfBirth: strPtr("1978-01-05"), Allergies: []string{"latex"}},
		{Name: "Olivia Brown", Phone: "+1-555-0204", DateOfBirth: strPtr("2001-11-17"), Allergies: []string{}},
	}
	for _, p := range patients {
		if err := repo.CreatePatient(ctx, p); err != nil {
			return fmt.Errorf("seed patients: %w", err)
		}
	}

	rooms := []*Room{
		{Name: "Room 1", ChairNumber: 1, Floor: 1, Equipment: []string{"chair", "x-ray"}, Status: RoomAvailable},
		{Name: "Room 2", ChairNumber: 2, Floor: 1, Equipment: []string{"chair", "intraoral camera"}, Status: RoomAvailable},
		{Name: "Surgery", ChairNumber: 3, Floor: 2, Equipment: []string{"chair", "implant motor", "autoclave"}, Status: RoomAvailable},
		{Name: "Room 4", ChairNumber: 4, Floor: 2, Equipment: []string{"chair"}, Status: RoomMaintenance},
	}
	for _, r := range rooms {
		if err := repo.CreateRoom(ctx, r); err != nil {
			return fmt.Errorf("seed rooms: %w", err)
		}
	}

	appts := []*Appointment{
		{PatientID: patients[0].ID, DentistID: staff[0].ID, RoomID: &rooms[0].ID, StartTime: MustClock("09:00"), EndTime: MustClock("10:00"), Status: StatusConfirmed, Treatment: strPtr("filling")},
		{PatientID: patients[1].ID, DentistID: staff[1].ID, RoomID: &rooms[1].ID, StartTime: MustClock("09:30"), EndTime: MustClock("11:00"), Status: StatusScheduled, Treatment: strPtr("root-canal")},
		{PatientID: patients[2].ID, DentistID: staff[0].ID, RoomID: &rooms[2].ID, StartTime: MustClock("11:00"), EndTime: MustClock("12:30"), Status: StatusScheduled, Treatment: strPtr("implant")},
		{PatientID: patients[3].ID, DentistID: staff[1].ID, StartTime: MustClock("15:00"), EndTime: MustClock("15:30"), Status: StatusScheduled, Treatment: strPtr("cleaning")},
	}
	for _, a := range appts {
		a.Date = date
		if err := repo.CreateAppointment(ctx, a); err != nil {
			return fmt.Errorf("seed appointments: %w", err)
		}
	}

	items := []*InventoryItem{
		{Name: "Composite resin A2", Category: "restorative", Quantity: 24, Unit: "syringe", MinQuantity: 10, Supplier: strPtr("DentSupply")},
		{Name: "Nitrile gloves M", Category: "consumables", Quantity: 6, Unit: "box", MinQuantity: 10},
		{Name: "Lidocaine 2%", Category: "anesthetics", Quantity: 40, Unit: "cartridge", MinQuantity: 20, ExpiryDate: strPtr(day.AddDate(1, 0, 0).Format(DateLayout))},
	}
	for _, it := range items {
		if err := repo.CreateItem(ctx, it); err != nil {
			return fmt.Errorf("seed inventory: %w", err)
		}
	}

	off := &DayOff{StaffID: staff[2].ID, Date: date, Reason: strPtr("conference"), Status: DayOffApproved}
	if err := repo.CreateDayOff(ctx, off); err != nil {
		return fmt.Errorf("seed day off: %w", err)
	}

	return nil
}
