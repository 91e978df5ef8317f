package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"carwash-backend/internal/istdate"
	"carwash-backend/internal/model"
	"carwash-backend/internal/parse"
	"carwash-backend/internal/rules"
)

// StartPackage binds a package to a vehicle and resets its monthly counters.
// The pending quota is seeded from the package rule table, not the raw row.
func (s *gormStore) StartPackage(ctx context.Context, customerID, vehicleID, packageID int64, startDate string) error {
	if startDate == "" {
		startDate = istdate.Today()
	} else if !istdate.Valid(startDate) {
		return fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", startDate)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pkg model.Package
		if err := tx.First(&pkg, packageID).Error; err != nil {
			return fmt.Errorf("package %d: %w", packageID, err)
		}

		vehicle, err := resolveVehicle(tx, customerID, vehicleID)
		if err != nil {
			return err
		}

		specs := rules.GetPackageSpecs(packageInfo(&pkg))
		return tx.Model(vehicle).Updates(map[string]any{
			"package_id":         pkg.ID,
			"package_name":       pkg.Name,
			"pending_washes":     specs.ExteriorPerMonth,
			"completed_washes":   0,
			"package_start_date": startDate,
			"disabled_until":     nil,
		}).Error
	})
}

// Dashboard returns the washer's assignment list for one query. All filtering
// happens here: apartment and car type in SQL, the due-day check against the
// resolved washing-day set. Clients render the result verbatim.
func (s *gormStore) Dashboard(ctx context.Context, washerID int64, date, apartment, carType string) ([]*Assignment, error) {
	today := istdate.Today()

	q := s.db.WithContext(ctx).
		Joins("JOIN customers ON customers.id = vehicles.customer_id").
		Where("vehicles.washer_id = ?", washerID)
	if apartment != "" {
		q = q.Where("customers.apartment = ?", apartment)
	}
	if carType != "" {
		q = q.Where("LOWER(vehicles.car_type) = ?", strings.ToLower(carType))
	}

	var vehicles []model.Vehicle
	if err := q.Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("dashboard query failed: %w", err)
	}

	// The washing-day set lives in a serialized column, so the due-day filter
	// runs here rather than in SQL.
	queryDate := date
	if queryDate == "" || queryDate == rules.DateToday {
		queryDate = today
	}
	filterByDay := date != rules.DateAll
	queryDay := istdate.Weekday(queryDate)

	assignments := make([]*Assignment, 0, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		if filterByDay && !dueOnDay(v, queryDay) {
			continue
		}
		a, err := s.assignmentFor(ctx, v, today)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

func dueOnDay(v *model.Vehicle, day int) bool {
	days := rules.ResolveWashingDays(scheduleSource(v))
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func (s *gormStore) assignmentFor(ctx context.Context, v *model.Vehicle, today string) (*Assignment, error) {
	var customer model.Customer
	if err := s.db.WithContext(ctx).First(&customer, v.CustomerID).Error; err != nil {
		return nil, fmt.Errorf("customer %d: %w", v.CustomerID, err)
	}

	a := &Assignment{
		ID:              v.ID,
		CustomerID:      v.CustomerID,
		VehicleNo:       v.VehicleNo,
		CarModel:        v.CarModel,
		CarType:         v.CarType,
		CustomerName:    customer.Name,
		Apartment:       customer.Apartment,
		DoorNo:          customer.DoorNo,
		PackageName:     v.PackageName,
		WashingDayNames: v.WashingDayNames,
		PendingWashes:   v.PendingWashes,
		CompletedWashes: v.CompletedWashes,
		DisabledUntil:   v.DisabledUntil,
		LastWashDate:    v.LastWashDate,
	}
	if len(v.WashingDays) > 0 {
		scheduleType := v.ScheduleType
		if scheduleType == "" {
			scheduleType = model.ScheduleTypeWeekly
		}
		a.WashingSchedule = &WashingSchedule{ScheduleType: scheduleType, WashingDays: v.WashingDays}
	}
	if v.DisabledUntil != nil && *v.DisabledUntil >= today {
		a.WashedToday = true
	}

	var last model.WashLog
	err := s.db.WithContext(ctx).
		Where("vehicle_id = ? AND status = ?", v.ID, model.WashStatusCompleted).
		Order("wash_date DESC, id DESC").
		First(&last).Error
	if err == nil {
		lw := &LastWash{Date: last.WashDate, WasherName: last.WasherName, WashType: last.WashType}
		if last.WasherID != nil {
			lw.WasherID = *last.WasherID
		}
		a.LastWash = lw
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return a, nil
}

// CompleteWash records one wash occurrence transactionally: the log entry is
// created and the vehicle's counters move in the same transaction, so a
// failure leaves no partial state for the client to mirror.
func (s *gormStore) CompleteWash(ctx context.Context, req CompleteWashRequest) (*CompletionResult, error) {
	today := istdate.Today()
	washDate := req.WashDate
	if washDate == "" || washDate == rules.DateToday {
		washDate = today
	}
	if !istdate.Valid(washDate) {
		return nil, fmt.Errorf("invalid wash date %q, expected YYYY-MM-DD", washDate)
	}

	var result *CompletionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vehicle, err := resolveVehicle(tx, req.CustomerID, req.VehicleID)
		if err != nil {
			return err
		}

		if !req.ConfirmEarly && rules.ShouldConfirmEarlyCompletion(washDate, scheduleSource(vehicle)) {
			return ErrEarlyWashConfirmation
		}

		var washerName string
		if req.WasherID != 0 {
			var washer model.Washer
			if err := tx.First(&washer, req.WasherID).Error; err != nil {
				return fmt.Errorf("washer %d: %w", req.WasherID, err)
			}
			washerName = washer.Name
		}

		washType, err := s.washTypeFor(tx, vehicle, washDate)
		if err != nil {
			return err
		}

		entry := model.WashLog{
			VehicleID:  vehicle.ID,
			CustomerID: vehicle.CustomerID,
			WasherName: washerName,
			WashDate:   washDate,
			Status:     model.WashStatusCompleted,
			WashType:   washType,
			Notes:      req.Notes,
		}
		if req.WasherID != 0 {
			entry.WasherID = &req.WasherID
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to create wash log: %w", err)
		}

		pending := vehicle.PendingWashes - 1
		if pending < 0 {
			pending = 0
		}
		updates := map[string]any{
			"pending_washes":   pending,
			"completed_washes": vehicle.CompletedWashes + 1,
			"last_wash_date":   istdate.Now().Format(time.RFC3339),
		}
		var disabledUntil *string
		if washDate == today {
			disabledUntil = &today
			updates["disabled_until"] = today
		}
		if err := tx.Model(vehicle).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update vehicle counters: %w", err)
		}

		result = &CompletionResult{
			AssignmentID:  vehicle.ID,
			WashLogID:     entry.ID,
			WasherID:      req.WasherID,
			WasherName:    washerName,
			WashType:      washType,
			WashDate:      washDate,
			WashedToday:   washDate == today,
			DisabledUntil: disabledUntil,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// washTypeFor picks "both" while the interior quota for the wash's month still
// has room, "exterior" otherwise.
func (s *gormStore) washTypeFor(tx *gorm.DB, v *model.Vehicle, washDate string) (string, error) {
	specs := rules.GetPackageSpecs(vehiclePackageInfo(v))
	eligible := rules.HasInteriorOption(rules.InteriorSource{
		InteriorPerMonth: &specs.InteriorPerMonth,
		PackageName:      v.PackageName,
	})
	if !eligible {
		return model.WashTypeExterior, nil
	}

	year, month, err := parse.Month(washDate[:7])
	if err != nil {
		return "", err
	}
	from, to := parse.MonthRange(year, month)

	var interiorDone int64
	if err := tx.Model(&model.WashLog{}).
		Where("vehicle_id = ? AND status = ? AND wash_type = ? AND wash_date >= ? AND wash_date < ?",
			v.ID, model.WashStatusCompleted, model.WashTypeBoth, from, to).
		Count(&interiorDone).Error; err != nil {
		return "", err
	}
	if int(interiorDone) < specs.InteriorPerMonth {
		return model.WashTypeBoth, nil
	}
	return model.WashTypeExterior, nil
}

// CancelWashLog reverts a completed wash. The log flips to the cancelled state
// (never deleted) and the vehicle's counters are restored.
func (s *gormStore) CancelWashLog(ctx context.Context, logID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry model.WashLog
		if err := tx.First(&entry, logID).Error; err != nil {
			return err
		}
		if entry.Status != model.WashStatusCompleted {
			return ErrNotCancellable
		}

		if err := tx.Model(&entry).Update("status", model.WashStatusCancelled).Error; err != nil {
			return err
		}

		var vehicle model.Vehicle
		if err := tx.First(&vehicle, entry.VehicleID).Error; err != nil {
			return err
		}
		completed := vehicle.CompletedWashes - 1
		if completed < 0 {
			completed = 0
		}
		updates := map[string]any{
			"pending_washes":   vehicle.PendingWashes + 1,
			"completed_washes": completed,
		}
		if entry.WashDate == istdate.Today() {
			updates["disabled_until"] = nil
		}
		return tx.Model(&vehicle).Updates(updates).Error
	})
}

func (s *gormStore) WashHistory(ctx context.Context, customerID int64, year int, month time.Month) ([]model.WashLog, error) {
	from, to := parse.MonthRange(year, month)
	var logs []model.WashLog
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND wash_date >= ? AND wash_date < ?", customerID, from, to).
		Order("wash_date DESC, id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load wash history: %w", err)
	}
	return logs, nil
}

// PendingWashes summarizes the remaining monthly quota per vehicle: the quota
// from the package rule table minus completed log entries in that month.
func (s *gormStore) PendingWashes(ctx context.Context, customerID int64, year int, month time.Month) ([]PendingWash, error) {
	var vehicles []model.Vehicle
	if err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).Find(&vehicles).Error; err != nil {
		return nil, err
	}
	from, to := parse.MonthRange(year, month)

	summaries := make([]PendingWash, 0, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		specs := rules.GetPackageSpecs(vehiclePackageInfo(v))

		var done, interiorDone int64
		if err := s.db.WithContext(ctx).Model(&model.WashLog{}).
			Where("vehicle_id = ? AND status = ? AND wash_date >= ? AND wash_date < ?",
				v.ID, model.WashStatusCompleted, from, to).
			Count(&done).Error; err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Model(&model.WashLog{}).
			Where("vehicle_id = ? AND status = ? AND wash_type = ? AND wash_date >= ? AND wash_date < ?",
				v.ID, model.WashStatusCompleted, model.WashTypeBoth, from, to).
			Count(&interiorDone).Error; err != nil {
			return nil, err
		}

		summaries = append(summaries, PendingWash{
			VehicleID:       v.ID,
			VehicleNo:       v.VehicleNo,
			PackageName:     v.PackageName,
			ExteriorQuota:   specs.ExteriorPerMonth,
			ExteriorDone:    int(done),
			ExteriorPending: clampNonNegative(specs.ExteriorPerMonth - int(done)),
			InteriorQuota:   specs.InteriorPerMonth,
			InteriorDone:    int(interiorDone),
			InteriorPending: clampNonNegative(specs.InteriorPerMonth - int(interiorDone)),
		})
	}
	return summaries, nil
}

func (s *gormStore) WasherLogs(ctx context.Context, washerID int64, year int, month time.Month) ([]model.WashLog, error) {
	from, to := parse.MonthRange(year, month)
	var logs []model.WashLog
	err := s.db.WithContext(ctx).
		Where("washer_id = ? AND wash_date >= ? AND wash_date < ?", washerID, from, to).
		Order("wash_date DESC, id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load washer logs: %w", err)
	}
	return logs, nil
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func scheduleSource(v *model.Vehicle) rules.ScheduleSource {
	return rules.ScheduleSource{
		WashingDays:     v.WashingDays,
		WashingDayNames: v.WashingDayNames,
		PackageName:     v.PackageName,
	}
}

func packageInfo(p *model.Package) rules.PackageInfo {
	return rules.PackageInfo{
		Name:              p.Name,
		WashCountPerMonth: p.WashCountPerMonth,
		WashCountPerWeek:  p.WashCountPerWeek,
		InteriorCleaning:  p.InteriorCleaning,
	}
}

func vehiclePackageInfo(v *model.Vehicle) rules.PackageInfo {
	if v.Package != nil {
		return packageInfo(v.Package)
	}
	return rules.PackageInfo{Name: v.PackageName}
}
