// Package designapi talks to the design generation service.
//
// The wire format is JSON. A request is
//
//	{"action":"generate_design","requirements":{"area":120,"bedrooms":3,
//	 "bathrooms":2,"style":"Modern","additional_requirements":""}}
//
// posted to {base}/generate; a response carries the design under "design".
// Decoding is strict: unknown or missing fields are parse errors and no
// partial document is ever returned.
package designapi
