package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
)

// ParkingService orchestrates CRUD over the facility hierarchy:
// areas, parkings, sections, slots and the rate table.
type ParkingService struct {
	areaRepo    repository.AreaRepository
	parkingRepo repository.ParkingRepository
	sectionRepo repository.SectionRepository
	slotRepo    repository.SlotRepository
	priceRepo   repository.PriceRepository
}

func NewParkingService(
	areaRepo repository.AreaRepository,
	parkingRepo repository.ParkingRepository,
	sectionRepo repository.SectionRepository,
	slotRepo repository.SlotRepository,
	priceRepo repository.PriceRepository,
) *ParkingService {
	return &ParkingService{
		areaRepo:    areaRepo,
		parkingRepo: parkingRepo,
		sectionRepo: sectionRepo,
		slotRepo:    slotRepo,
		priceRepo:   priceRepo,
	}
}

// --- Areas ---

func (s *ParkingService) CreateArea(ctx context.Context, dto domain.AreaDTO) (*domain.Area, error) {
	area := &domain.Area{
		Name:     dto.Name,
		Capacity: *dto.Capacity,
	}
	return s.areaRepo.Create(ctx, area)
}

func (s *ParkingService) GetArea(ctx context.Context, id int) (*domain.Area, error) {
	return s.areaRepo.FindByID(ctx, id)
}

func (s *ParkingService) ListAreas(ctx context.Context) ([]domain.Area, error) {
	return s.areaRepo.FindAll(ctx)
}

func (s *ParkingService) UpdateArea(ctx context.Context, id int, dto domain.AreaDTO) (*domain.Area, error) {
	area, err := s.areaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	area.Name = dto.Name
	area.Capacity = *dto.Capacity
	return s.areaRepo.Update(ctx, area)
}

func (s *ParkingService) DeleteArea(ctx context.Context, id int) error {
	return s.areaRepo.Delete(ctx, id)
}

// --- Parkings ---

func (s *ParkingService) CreateParking(ctx context.Context, userID int, dto domain.ParkingDTO) (*domain.Parking, error) {
	if _, err := s.areaRepo.FindByID(ctx, dto.AreaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: area %d does not exist", ErrValidation, dto.AreaID)
		}
		return nil, fmt.Errorf("checking area: %w", err)
	}

	status := domain.ParkingEmpty
	if dto.Status != "" {
		switch domain.ParkingStatus(dto.Status) {
		case domain.ParkingEmpty, domain.ParkingOccupied, domain.ParkingInRepair:
			status = domain.ParkingStatus(dto.Status)
		default:
			return nil, fmt.Errorf("%w: unknown parking status %q", ErrValidation, dto.Status)
		}
	}

	parking := &domain.Parking{
		UserID:   userID,
		AreaID:   dto.AreaID,
		Name:     dto.Name,
		Location: dto.Location,
		Size:     domain.ParkingSize(dto.Size),
		Status:   status,
	}
	return s.parkingRepo.Create(ctx, parking)
}

func (s *ParkingService) GetParking(ctx context.Context, id int) (*domain.Parking, error) {
	return s.parkingRepo.FindByID(ctx, id)
}

func (s *ParkingService) ListParkings(ctx context.Context, areaID *int) ([]domain.Parking, error) {
	if areaID != nil {
		return s.parkingRepo.FindByAreaID(ctx, *areaID)
	}
	return s.parkingRepo.FindAll(ctx)
}

func (s *ParkingService) UpdateParking(ctx context.Context, id int, dto domain.ParkingDTO) (*domain.Parking, error) {
	parking, err := s.parkingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.AreaID != parking.AreaID {
		if _, err := s.areaRepo.FindByID(ctx, dto.AreaID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: area %d does not exist", ErrValidation, dto.AreaID)
			}
			return nil, fmt.Errorf("checking area: %w", err)
		}
	}
	if dto.Status != "" {
		switch domain.ParkingStatus(dto.Status) {
		case domain.ParkingEmpty, domain.ParkingOccupied, domain.ParkingInRepair:
			parking.Status = domain.ParkingStatus(dto.Status)
		default:
			return nil, fmt.Errorf("%w: unknown parking status %q", ErrValidation, dto.Status)
		}
	}
	parking.AreaID = dto.AreaID
	parking.Name = dto.Name
	parking.Location = dto.Location
	parking.Size = domain.ParkingSize(dto.Size)
	return s.parkingRepo.Update(ctx, parking)
}

func (s *ParkingService) DeleteParking(ctx context.Context, id int) error {
	return s.parkingRepo.Delete(ctx, id)
}

// --- Sections ---

func (s *ParkingService) CreateSection(ctx context.Context, userID int, dto domain.ParkingSectionDTO) (*domain.ParkingSection, error) {
	if _, err := s.parkingRepo.FindByID(ctx, dto.ParkingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: parking %d does not exist", ErrValidation, dto.ParkingID)
		}
		return nil, fmt.Errorf("checking parking: %w", err)
	}

	section := &domain.ParkingSection{
		UserID:      userID,
		ParkingID:   dto.ParkingID,
		Floor:       dto.Floor,
		ParkingType: dto.ParkingType,
		Capacity:    *dto.Capacity,
	}
	return s.sectionRepo.Create(ctx, section)
}

func (s *ParkingService) GetSection(ctx context.Context, id uuid.UUID) (*domain.ParkingSection, error) {
	return s.sectionRepo.FindByID(ctx, id)
}

func (s *ParkingService) ListSections(ctx context.Context, parkingID *int) ([]domain.ParkingSection, error) {
	if parkingID != nil {
		return s.sectionRepo.FindByParkingID(ctx, *parkingID)
	}
	return s.sectionRepo.FindAll(ctx)
}

func (s *ParkingService) UpdateSection(ctx context.Context, id uuid.UUID, dto domain.ParkingSectionDTO) (*domain.ParkingSection, error) {
	section, err := s.sectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.ParkingID != section.ParkingID {
		if _, err := s.parkingRepo.FindByID(ctx, dto.ParkingID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: parking %d does not exist", ErrValidation, dto.ParkingID)
			}
			return nil, fmt.Errorf("checking parking: %w", err)
		}
	}
	section.ParkingID = dto.ParkingID
	section.Floor = dto.Floor
	section.ParkingType = dto.ParkingType
	section.Capacity = *dto.Capacity
	return s.sectionRepo.Update(ctx, section)
}

func (s *ParkingService) DeleteSection(ctx context.Context, id uuid.UUID) error {
	return s.sectionRepo.Delete(ctx, id)
}

// --- Slots ---

func (s *ParkingService) CreateSlot(ctx context.Context, dto domain.ParkingSlotDTO) (*domain.ParkingSlot, error) {
	sectionID, err := uuid.Parse(dto.SectionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid section id", ErrValidation)
	}
	if _, err := s.sectionRepo.FindByID(ctx, sectionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: section %s does not exist", ErrValidation, sectionID)
		}
		return nil, fmt.Errorf("checking section: %w", err)
	}

	slot := &domain.ParkingSlot{
		SectionID:         sectionID,
		SlotNumber:        dto.SlotNumber,
		SlotType:          dto.SlotType,
		ChargingAvailable: dto.ChargingAvailable,
		Reserved:          dto.Reserved,
		Booked:            false,
		Available:         !dto.Reserved,
	}
	return s.slotRepo.Create(ctx, slot)
}

func (s *ParkingService) GetSlot(ctx context.Context, id uuid.UUID) (*domain.ParkingSlot, error) {
	return s.slotRepo.FindByID(ctx, id)
}

func (s *ParkingService) ListSlots(ctx context.Context, sectionID *uuid.UUID) ([]domain.ParkingSlot, error) {
	if sectionID != nil {
		return s.slotRepo.FindBySectionID(ctx, *sectionID)
	}
	return s.slotRepo.FindAll(ctx)
}

func (s *ParkingService) UpdateSlot(ctx context.Context, id uuid.UUID, dto domain.ParkingSlotDTO) (*domain.ParkingSlot, error) {
	slot, err := s.slotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sectionID, err := uuid.Parse(dto.SectionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid section id", ErrValidation)
	}
	if sectionID != slot.SectionID {
		if _, err := s.sectionRepo.FindByID(ctx, sectionID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: section %s does not exist", ErrValidation, sectionID)
			}
			return nil, fmt.Errorf("checking section: %w", err)
		}
	}
	slot.SectionID = sectionID
	slot.SlotNumber = dto.SlotNumber
	slot.SlotType = dto.SlotType
	slot.ChargingAvailable = dto.ChargingAvailable
	slot.Reserved = dto.Reserved
	if !slot.Booked {
		slot.Available = !dto.Reserved
	}
	return s.slotRepo.Update(ctx, slot)
}

func (s *ParkingService) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	return s.slotRepo.Delete(ctx, id)
}

// --- Rate table ---

func (s *ParkingService) CreatePrice(ctx context.Context, dto domain.ParkingPriceDTO) (*domain.ParkingPrice, error) {
	sectionID, err := uuid.Parse(dto.SectionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid section id", ErrValidation)
	}
	if _, err := s.sectionRepo.FindByID(ctx, sectionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: section %s does not exist", ErrValidation, sectionID)
		}
		return nil, fmt.Errorf("checking section: %w", err)
	}
	if !domain.ValidRateType(dto.RateType) {
		return nil, fmt.Errorf("%w: unknown rate type %q", ErrValidation, dto.RateType)
	}
	if *dto.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	price := &domain.ParkingPrice{
		SectionID:   sectionID,
		RateType:    domain.RateType(dto.RateType),
		Price:       *dto.Price,
		VehicleSize: domain.ParkingSize(dto.VehicleSize),
		HasCharging: dto.HasCharging,
	}
	return s.priceRepo.Create(ctx, price)
}

func (s *ParkingService) GetPrice(ctx context.Context, id uuid.UUID) (*domain.ParkingPrice, error) {
	return s.priceRepo.FindByID(ctx, id)
}

func (s *ParkingService) ListPrices(ctx context.Context, sectionID *uuid.UUID) ([]domain.ParkingPrice, error) {
	if sectionID != nil {
		return s.priceRepo.FindBySectionID(ctx, *sectionID)
	}
	return s.priceRepo.FindAll(ctx)
}

func (s *ParkingService) UpdatePrice(ctx context.Context, id uuid.UUID, dto domain.ParkingPriceDTO) (*domain.ParkingPrice, error) {
	price, err := s.priceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sectionID, err := uuid.Parse(dto.SectionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid section id", ErrValidation)
	}
	if !domain.ValidRateType(dto.RateType) {
		return nil, fmt.Errorf("%w: unknown rate type %q", ErrValidation, dto.RateType)
	}
	if *dto.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	price.SectionID = sectionID
	price.RateType = domain.RateType(dto.RateType)
	price.Price = *dto.Price
	price.VehicleSize = domain.ParkingSize(dto.VehicleSize)
	price.HasCharging = dto.HasCharging
	return s.priceRepo.Update(ctx, price)
}

func (s *ParkingService) DeletePrice(ctx context.Context, id uuid.UUID) error {
	return s.priceRepo.Delete(ctx, id)
}
