// Package nmea validates and decomposes NMEA 0183 sentences and turns GLL,
// RMC and GGA sentences into positions.
//
// Only the "$GP" talker is accepted. Logs are read line by line; anything
// that is not a valid, supported sentence is skipped rather than reported.
package nmea
