package game

import (
	"math"
	"reflect"
	"testing"
)

func TestWinPerLine(t *testing.T) {
	tests := []struct {
		name       string
		prediction float64
		moneyLine  float64
		want       float64
	}{
		{"favorite", 65.5, -150, -43.666666666666664},
		{"underdog", 34.5, 120, 28.75},
		{"even line", 50, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WinPerLine(tt.prediction, tt.moneyLine)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WinPerLine(%v, %v) = %v, want %v", tt.prediction, tt.moneyLine, got, tt.want)
			}
		})
	}
}

func TestRecordRows(t *testing.T) {
	rec := &Record{
		GameID:            "12345",
		League:            NBA,
		SourceURL:         "https://www.espn.com/nba/game/_/gameId/12345/",
		TeamOneName:       "Celtics",
		TeamTwoName:       "Knicks",
		HomeMoneyLine:     -150,
		AwayMoneyLine:     130,
		TeamOnePrediction: 65.5,
		TeamTwoPrediction: 34.5,
	}

	rows := rec.Rows()
	if len(rows) != 2 {
		t.Fatalf("Rows() returned %d rows, want 2", len(rows))
	}

	want := []Row{
		{TeamName: "Celtics", Prediction: 65.5, MoneyLine: -150, GameID: "12345", League: NBA},
		{TeamName: "Knicks", Prediction: 34.5, MoneyLine: 130, GameID: "12345", League: NBA},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Rows() = %+v, want %+v", rows, want)
	}
}

func TestRowFormatting(t *testing.T) {
	row := Row{TeamName: "UConn", Prediction: 81.2, MoneyLine: -400, GameID: "401", League: NCAAW}

	wantStrings := []string{"UConn", "81.2", "-400", "401", "NCAAW"}
	if got := row.Strings(); !reflect.DeepEqual(got, wantStrings) {
		t.Errorf("Strings() = %v, want %v", got, wantStrings)
	}

	values := row.Values()
	if len(values) != 5 {
		t.Fatalf("Values() returned %d cells, want 5", len(values))
	}
	if values[1] != 81.2 || values[2] != -400.0 || values[4] != "NCAAW" {
		t.Errorf("Values() = %v", values)
	}
}

func TestReferenceURLAt(t *testing.T) {
	ref := Reference{League: NCAAW, GameID: "401600001"}

	got, err := ref.URLAt("http://127.0.0.1:8080/")
	if err != nil {
		t.Fatalf("URLAt() error: %v", err)
	}
	if want := "http://127.0.0.1:8080/womens-college-basketball/game/_/gameId/401600001/"; got != want {
		t.Errorf("URLAt() = %q, want %q", got, want)
	}

	if _, err := (Reference{League: Unknown, GameID: "1"}).URLAt(BaseURL); err == nil {
		t.Error("URLAt() expected error for unknown league")
	}
}
