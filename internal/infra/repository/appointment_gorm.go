package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}

// --------------------------------------------------
// Transaction / locks
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// Chaves de advisory lock: namespace fixo + hashtext da chave textual, na
// forma de dois int4. Não trunca IDs e não colide com locks de um argumento.
const (
	lockNamespaceSchedule = "schedule"
	lockNamespaceQueue    = "queue"
)

func scheduleLockKey(barberID uint, date string) string {
	return fmt.Sprintf("%d:%s", barberID, date)
}

func queueLockKey(barbershopID uint) string {
	return fmt.Sprintf("%d", barbershopID)
}

func (r *AppointmentGormRepository) advisoryLock(ctx context.Context, namespace, key string) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?), hashtext(?))", namespace, key).
		Error
}

// LockSchedule usa advisory lock de transação (barbeiro, dia): cobre também
// inserts concorrentes, que um SELECT ... FOR UPDATE não bloquearia.
func (r *AppointmentGormRepository) LockSchedule(
	ctx context.Context,
	barberID uint,
	date string,
) error {
	if err := r.advisoryLock(ctx, lockNamespaceSchedule, scheduleLockKey(barberID, date)); err != nil {
		return fmt.Errorf("lock schedule: %w", err)
	}
	return nil
}

func (r *AppointmentGormRepository) LockQueue(
	ctx context.Context,
	barbershopID uint,
) error {
	if err := r.advisoryLock(ctx, lockNamespaceQueue, queueLockKey(barbershopID)); err != nil {
		return fmt.Errorf("lock queue: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Barbershop
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, notFound(err, "barbershop_not_found")
	}
	return &shop, nil
}

func (r *AppointmentGormRepository) GetBarbershopBySlug(
	ctx context.Context,
	slug string,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {
		return nil, notFound(err, "barbershop_not_found")
	}
	return &shop, nil
}

func (r *AppointmentGormRepository) CreateBarbershop(
	ctx context.Context,
	shop *models.Barbershop,
) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	barbershopID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", serviceID, barbershopID).
		First(&service).Error; err != nil {
		return nil, notFound(err, "service_not_found")
	}
	return &service, nil
}

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", barberID, barbershopID).
		First(&barber).Error; err != nil {
		return nil, notFound(err, "barber_not_found")
	}
	return &barber, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	barbershopID uint,
	name string,
	phone string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND phone = ?", barbershopID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		BarbershopID: barbershopID,
		Name:         name,
		Phone:        phone,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		// outro request criou o mesmo cliente no meio do caminho
		if httperr.IsUniqueViolation(err, "") {
			if err := r.db.WithContext(ctx).
				Where("barbershop_id = ? AND phone = ?", barbershopID, phone).
				First(&client).Error; err != nil {
				return nil, err
			}
			return &client, nil
		}
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", appointmentID, barbershopID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, "appointment_not_found")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentByProtocol(
	ctx context.Context,
	barbershopID uint,
	protocol string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND protocol = ?", barbershopID, protocol).
		First(&ap).Error; err != nil {
		return nil, notFound(err, "appointment_not_found")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointmentsByIDs(
	ctx context.Context,
	barbershopID uint,
	ids []uint,
) ([]models.Appointment, error) {

	if len(ids) == 0 {
		return nil, nil
	}

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND id IN ?", barbershopID, ids).
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	barberID uint,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"barber_id = ? AND date = ? AND status <> ?",
			barberID, date, string(domain.StatusCancelled),
		).
		Order("time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	from string,
	to string,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where(
			"barbershop_id = ? AND date >= ? AND date < ?",
			barbershopID, from, to,
		)

	if barberID != 0 {
		q = q.Where("barber_id = ?", barberID)
	}

	var apps []models.Appointment
	if err := q.
		Order("date ASC").
		Order("time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Availability inputs
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBlockedSlots(
	ctx context.Context,
	barberID uint,
	date string,
) ([]models.BlockedSlot, error) {

	var blocks []models.BlockedSlot
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ?", barberID, date).
		Order("start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *AppointmentGormRepository) GetAvailabilityOverride(
	ctx context.Context,
	barberID uint,
	date string,
) (*models.BarberAvailability, error) {

	var override models.BarberAvailability
	err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ?", barberID, date).
		First(&override).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// --------------------------------------------------
// Queue
// --------------------------------------------------

func (r *AppointmentGormRepository) ListQueueEntries(
	ctx context.Context,
	barbershopID uint,
) ([]models.QueueEntry, error) {

	var entries []models.QueueEntry
	if err := r.db.WithContext(ctx).
		Where(
			"barbershop_id = ? AND status IN ?",
			barbershopID,
			[]string{
				string(queue.StatusWaiting),
				string(queue.StatusCalled),
				string(queue.StatusOnWay),
			},
		).
		Order("sequence ASC").
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *AppointmentGormRepository) GetQueueEntryByAppointment(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
) (*models.QueueEntry, error) {

	var entry models.QueueEntry
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND appointment_id = ?", barbershopID, appointmentID).
		First(&entry).Error; err != nil {
		return nil, notFound(err, "queue_entry_not_found")
	}
	return &entry, nil
}

func (r *AppointmentGormRepository) CreateQueueEntry(
	ctx context.Context,
	e *models.QueueEntry,
) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AppointmentGormRepository) UpdateQueueEntry(
	ctx context.Context,
	e *models.QueueEntry,
) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *AppointmentGormRepository) DeleteQueueEntry(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.QueueEntry{}, id).Error
}

func (r *AppointmentGormRepository) ClaimQueueEntry(
	ctx context.Context,
	id uint,
	calledAt time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.QueueEntry{}).
		Where("id = ? AND status = ?", id, string(queue.StatusWaiting)).
		Updates(map[string]any{
			"status":         string(queue.StatusCalled),
			"called_at":      calledAt,
			"position":       0,
			"estimated_wait": 0,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
