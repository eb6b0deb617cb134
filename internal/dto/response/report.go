package response

type DailyOccupancyResponse struct {
	Date          string `json:"date"`
	OccupiedRooms int    `json:"occupiedRooms"`
	TotalRooms    int    `json:"totalRooms"`
}

type BookingsByStateResponse struct {
	State      string   `json:"state"`
	BookingIDs []string `json:"bookingIds"`
}

type SummaryResponse struct {
	Total   int            `json:"total"`
	ByState map[string]int `json:"byState"`
}
