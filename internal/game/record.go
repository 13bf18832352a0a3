package game

import "strconv"

// Reference identifies one game found on a schedule page
type Reference struct {
	League League `json:"league"`
	GameID string `json:"game_id"`
}

// URLAt builds the game page URL under base
func (r Reference) URLAt(base string) (string, error) {
	return r.League.GameURLAt(base, r.GameID)
}

// Record holds the fields extracted from one game page.
// A Record is only built when both names, both money lines and both predictions are present.
type Record struct {
	GameID    string `json:"game_id"`
	League    League `json:"league"`
	SourceURL string `json:"source_url"`

	TeamOneName      string  `json:"team_one_name"`
	TeamTwoName      string  `json:"team_two_name"`
	TeamOneAttribute *string `json:"team_one_attribute,omitempty"`
	TeamTwoAttribute *string `json:"team_two_attribute,omitempty"`

	HomeMoneyLine float64 `json:"home_money_line"`
	AwayMoneyLine float64 `json:"away_money_line"`

	TeamOnePrediction float64 `json:"team_one_prediction_pct"`
	TeamTwoPrediction float64 `json:"team_two_prediction_pct"`

	TeamOneWinPerLine float64 `json:"team_one_win_per_line"`
	TeamTwoWinPerLine float64 `json:"team_two_win_per_line"`
}

// Row is one sink row: team name, prediction, money line, game ID, league tag
type Row struct {
	TeamName   string
	Prediction float64
	MoneyLine  float64
	GameID     string
	League     League
}

// Values returns the row as spreadsheet cell values in column order
func (r Row) Values() []interface{} {
	return []interface{}{r.TeamName, r.Prediction, r.MoneyLine, r.GameID, string(r.League)}
}

// Strings returns the row formatted as text cells in column order
func (r Row) Strings() []string {
	return []string{
		r.TeamName,
		strconv.FormatFloat(r.Prediction, 'f', -1, 64),
		strconv.FormatFloat(r.MoneyLine, 'f', -1, 64),
		r.GameID,
		string(r.League),
	}
}

// WinPerLine computes prediction * 100 / moneyLine.
// Callers must reject a zero money line beforehand.
func WinPerLine(prediction, moneyLine float64) float64 {
	return prediction * 100 / moneyLine
}

// Rows converts the record to its two sink rows: team one with the home line,
// team two with the away line. The league tag is classified from the source URL.
func (r *Record) Rows() []Row {
	league := Classify(r.SourceURL)
	return []Row{
		{
			TeamName:   r.TeamOneName,
			Prediction: r.TeamOnePrediction,
			MoneyLine:  r.HomeMoneyLine,
			GameID:     r.GameID,
			League:     league,
		},
		{
			TeamName:   r.TeamTwoName,
			Prediction: r.TeamTwoPrediction,
			MoneyLine:  r.AwayMoneyLine,
			GameID:     r.GameID,
			League:     league,
		},
	}
}
