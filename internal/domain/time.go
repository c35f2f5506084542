package domain

// TimeLayout is the wire format for every timestamp the API exchanges.
const TimeLayout = "2006-01-02 15:04:05"
