package testutil

// SampleWidgetsJSON is a persisted widget array in the wire shape the
// dashboard stores under dashboard:widgets.
const SampleWidgetsJSON = `[
	{"id":"local-11111111-1111-1111-1111-111111111111","type":"attendance","name":"Attendance Tracker","size":"medium","origin":"local","data":null,"position":0},
	{"id":"srv-842","type":"fitness","name":"Fitness Monitor","size":"large","origin":"server","data":{"steps":12000,"classes":3},"position":1}
]`

// SampleLegacyWidgetsJSON predates the origin field and carries a legacy
// size value; loading must tag origins by id prefix and normalize the size.
const SampleLegacyWidgetsJSON = `[
	{"id":"local-22222222-2222-2222-2222-222222222222","type":"teams","name":"Team Builder","size":"huge","data":"Two teams of five"},
	{"id":"srv-977","type":"scheduling","name":"Class Scheduler","size":"small","data":null}
]`

// SampleToken is a JWT whose payload carries
// {"name":"Alex Rivera","email":"alex@school.edu"}. The signature is junk;
// the client only ever decodes claims without verifying.
const SampleToken = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
	"eyJuYW1lIjoiQWxleCBSaXZlcmEiLCJlbWFpbCI6ImFsZXhAc2Nob29sLmVkdSJ9." +
	"c2lnbmF0dXJl"
