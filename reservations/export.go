package reservations

import (
	"fmt"

	"goodnight/dashboard"
	"goodnight/lifecycle"
	"goodnight/occupancy"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Reservations"

var exportHeader = []string{
	"ID", "Guest", "Email", "Phone", "Room", "Room #", "Check-in", "Check-out",
	"Nights", "Adults", "Kids", "Stored status", "Status", "Amount", "Created",
}

var statusFill = map[lifecycle.Status]string{
	lifecycle.Pending:    "#FCE4D6",
	lifecycle.Upcoming:   "#DDEBF7",
	lifecycle.InHouse:    "#E2EFDA",
	lifecycle.CheckedOut: "#EDEDED",
}

// Workbook lays out one reservation per row with its effective status.
func Workbook(rows []dashboard.Row, catalog occupancy.Catalog) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F3864"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	f.SetCellStyle(exportSheet, "A1", last, headerStyle)

	styles := map[lifecycle.Status]int{}
	for st, color := range statusFill {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return nil, fmt.Errorf("status style: %w", err)
		}
		styles[st] = id
	}

	for i, row := range rows {
		r := row.Reservation
		var roomNumber any = ""
		if r.HasRoomNumber() {
			roomNumber = r.RoomNumber
		}
		var amount any = ""
		if v, ok := dashboard.StayValue(r, catalog); ok {
			amount = v
		}
		values := []any{
			r.ID, r.GuestName, r.Email, r.Phone, r.RoomTypeName, roomNumber,
			r.CheckInDate.Format("2006-01-02"), r.CheckOutDate.Format("2006-01-02"),
			row.Nights, r.AdultsCount, r.KidsCount, r.Status, row.EffectiveStatus.String(), amount,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
		statusCell, _ := excelize.CoordinatesToCellName(13, i+2)
		f.SetCellStyle(exportSheet, statusCell, statusCell, styles[row.EffectiveStatus])
	}

	f.SetColWidth(exportSheet, "A", "A", 38)
	f.SetColWidth(exportSheet, "B", "D", 22)
	f.SetColWidth(exportSheet, "E", "E", 18)
	f.SetColWidth(exportSheet, "G", "H", 12)
	f.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	return f, nil
}
