// Package core contains the domain events of the casino floor:
// arrivals and departures, parking, games, orders and hotel stays.
//
// Events are plain values built with their Build<Event> factories. Failure events
// (ParkingCarFailed, BetDeclined, OrderRejected, HotelRoomBookingFailed) record expected,
// non-fatal outcomes; the facility never treats them as errors.
//
// All domain events implement the DomainEvent interface for journal integration.
package core
