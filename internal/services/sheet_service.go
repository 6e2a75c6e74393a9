package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/repositories"
	"carpool/internal/utils"

	"github.com/phpdave11/gofpdf"
)

type RequestLister interface {
	ListByTrip(ctx context.Context, tripID int64) ([]models.RideRequestDetail, error)
}

// SheetService renders the driver's trip sheet: the trip and who asked to join.
type SheetService struct {
	Trips     TripStore
	Requests  RequestLister
	RequestID string
}

func (s SheetService) trips() TripStore {
	if s.Trips != nil {
		return s.Trips
	}
	return repositories.TripRepository{}
}

func (s SheetService) requests() RequestLister {
	if s.Requests != nil {
		return s.Requests
	}
	return repositories.RideRequestRepository{}
}

// Generate returns the PDF bytes and a download filename. Only the trip's
// driver may fetch it.
func (s SheetService) Generate(ctx context.Context, who domain.Identity, tripID int64) ([]byte, string, error) {
	if !who.Authenticated() {
		return nil, "", domain.UnauthorizedError{}
	}
	trip, err := TripService{Trips: s.trips()}.Get(ctx, tripID)
	if err != nil {
		return nil, "", err
	}
	if trip.Driver.ID != int64(who.UserID) {
		return nil, "", domain.ForbiddenError{Msg: "only the driver can view this trip sheet"}
	}
	reqs, err := s.requests().ListByTrip(ctx, tripID)
	if err != nil {
		return nil, "", domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "sheet", "generate", fmt.Sprintf("trip_id=%d requests=%d", tripID, len(reqs)))
	return buildTripSheetPDF(trip, reqs)
}

func buildTripSheetPDF(t models.Trip, reqs []models.RideRequestDetail) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip Sheet", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TRIP SHEET")
	pdf.Ln(12)

	women := "No"
	if t.WomenOnly {
		women = "Yes"
	}
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Trip        : #%d", t.ID),
		fmt.Sprintf("Driver      : %s", safe(t.Driver.Name, "-")),
		fmt.Sprintf("From        : %s", safe(t.Origin.Address, "-")),
		fmt.Sprintf("To          : %s", safe(t.Destination.Address, "-")),
		fmt.Sprintf("Departure   : %s", utils.FormatDateTime(t.Departure)),
		fmt.Sprintf("Trip length : %s", safe(t.TripLength, "-")),
		fmt.Sprintf("Seats       : %d", t.Seats),
		fmt.Sprintf("Women only  : %s", women),
	}
	for _, l := range lines {
		pdf.MultiCell(0, 7, l, "", "", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Ride requests (%d)", len(reqs)))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	if len(reqs) == 0 {
		pdf.Cell(0, 6, "No requests yet.")
		pdf.Ln(6)
	}
	for i, r := range reqs {
		pdf.MultiCell(0, 6, fmt.Sprintf("%d) %s (%s) - %s", i+1, safe(r.UserName, "-"), safe(r.UserPhone, "-"), r.CreatedAt.Format("2006-01-02 15:04")), "", "", false)
		if msg := strings.TrimSpace(r.Message); msg != "" {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, 5, "   \""+msg+"\"", "", "", false)
			pdf.SetFont("Helvetica", "", 11)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 5, "Generated "+time.Now().Format("2006-01-02 15:04"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("TRIP_%d_%s.pdf", t.ID, safeFilenamePart(t.Departure.Format("20060102_1504")))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
