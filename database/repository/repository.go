package repository

import (
	availabilityRepo "sokoni/database/repository/availability"
	bookingRepo "sokoni/database/repository/bookings"
	catalogueRepo "sokoni/database/repository/catalogue"
	deviceRepo "sokoni/database/repository/devices"
	paymentRepo "sokoni/database/repository/payments"
	providerRepo "sokoni/database/repository/providers"
)

// Re-export the repository interfaces and constructors.
type AvailabilityRepository = availabilityRepo.AvailabilityRepository

var NewMongoAvailabilityRepo = availabilityRepo.NewMongoAvailabilityRepo

type BookingRepository = bookingRepo.BookingRepository

var NewMongoBookingRepo = bookingRepo.NewMongoBookingRepo

type PaymentRepository = paymentRepo.PaymentRepository

var NewMongoPaymentRepo = paymentRepo.NewMongoPaymentRepo

type CatalogueRepository = catalogueRepo.CatalogueRepository

var NewMongoCatalogueRepo = catalogueRepo.NewMongoCatalogueRepo

type ProviderRepository = providerRepo.ProviderRepository

var NewMongoProviderRepo = providerRepo.NewMongoProviderRepo

type DeviceRepository = deviceRepo.DeviceRepository

var NewMongoDeviceRepo = deviceRepo.NewMongoDeviceRepo
