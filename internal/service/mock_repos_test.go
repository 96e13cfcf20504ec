package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"summit-guard/backend/config"
	"summit-guard/backend/internal/model"
	"summit-guard/backend/internal/repository"
	pkgerrors "summit-guard/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock GuardRepository ──

type mockGuardRepo struct {
	guards map[string]*model.Guard
}

func newMockGuardRepo() *mockGuardRepo {
	return &mockGuardRepo{guards: make(map[string]*model.Guard)}
}

func (m *mockGuardRepo) Create(_ context.Context, guard *model.Guard) error {
	if guard.GuardID == "" {
		guard.GuardID = fmt.Sprintf("guard-%d", len(m.guards)+1)
	}
	m.guards[guard.GuardID] = guard
	return nil
}

func (m *mockGuardRepo) GetByID(_ context.Context, id string) (*model.Guard, error) {
	if g, ok := m.guards[id]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGuardRepo) List(_ context.Context, filter repository.GuardFilter, offset, limit int) ([]model.Guard, int64, error) {
	var result []model.Guard
	for _, g := range m.guards {
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		result = append(result, *g)
	}
	return result, int64(len(result)), nil
}

func (m *mockGuardRepo) ListActiveWithCerts(_ context.Context) ([]model.Guard, error) {
	var result []model.Guard
	ids := make([]string, 0, len(m.guards))
	for id := range m.guards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if m.guards[id].Status == model.GuardStatusActive {
			result = append(result, *m.guards[id])
		}
	}
	return result, nil
}

func (m *mockGuardRepo) Update(_ context.Context, guard *model.Guard) error {
	existing, ok := m.guards[guard.GuardID]
	if !ok || existing.Version != guard.Version {
		return pkgerrors.ErrOptimisticLock
	}
	guard.Version++
	m.guards[guard.GuardID] = guard
	return nil
}

func (m *mockGuardRepo) Delete(_ context.Context, id, _ string) error {
	delete(m.guards, id)
	return nil
}

// ── Mock CertificationRepository ──

type mockCertificationRepo struct {
	certs map[string]*model.Certification
}

func newMockCertificationRepo() *mockCertificationRepo {
	return &mockCertificationRepo{certs: make(map[string]*model.Certification)}
}

func (m *mockCertificationRepo) Create(_ context.Context, cert *model.Certification) error {
	if cert.CertificationID == "" {
		cert.CertificationID = fmt.Sprintf("cert-%d", len(m.certs)+1)
	}
	m.certs[cert.CertificationID] = cert
	return nil
}

func (m *mockCertificationRepo) GetByID(_ context.Context, id string) (*model.Certification, error) {
	if c, ok := m.certs[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCertificationRepo) ListByGuard(_ context.Context, guardID string) ([]model.Certification, error) {
	var result []model.Certification
	for _, c := range m.certs {
		if c.GuardID == guardID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCertificationRepo) Update(_ context.Context, cert *model.Certification) error {
	m.certs[cert.CertificationID] = cert
	return nil
}

func (m *mockCertificationRepo) ListExpiringWithin(_ context.Context, deadline time.Time) ([]model.Certification, error) {
	var result []model.Certification
	for _, c := range m.certs {
		if !c.ExpiresAt.After(deadline) && c.Status != model.CertStatusExpired {
			result = append(result, *c)
		}
	}
	return result, nil
}

// ── Mock SiteRepository ──

type mockSiteRepo struct {
	sites map[string]*model.Site
}

func newMockSiteRepo() *mockSiteRepo {
	return &mockSiteRepo{sites: make(map[string]*model.Site)}
}

func (m *mockSiteRepo) Create(_ context.Context, site *model.Site) error {
	if site.SiteID == "" {
		site.SiteID = fmt.Sprintf("site-%d", len(m.sites)+1)
	}
	m.sites[site.SiteID] = site
	return nil
}

func (m *mockSiteRepo) GetByID(_ context.Context, id string) (*model.Site, error) {
	if s, ok := m.sites[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSiteRepo) List(_ context.Context, offset, limit int) ([]model.Site, int64, error) {
	var result []model.Site
	for _, s := range m.sites {
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (m *mockSiteRepo) Update(_ context.Context, site *model.Site) error {
	m.sites[site.SiteID] = site
	return nil
}

func (m *mockSiteRepo) Delete(_ context.Context, id, _ string) error {
	delete(m.sites, id)
	return nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	shifts           map[string]*model.Shift
	failUpdateStatus bool
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	if shift.ShiftID == "" {
		shift.ShiftID = fmt.Sprintf("shift-%d", len(m.shifts)+1)
	}
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	if s, ok := m.shifts[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) List(_ context.Context, filter repository.ShiftFilter, offset, limit int) ([]model.Shift, int64, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if filter.SiteID != "" && s.SiteID != filter.SiteID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (m *mockShiftRepo) ListOpen(_ context.Context) ([]model.Shift, error) {
	var result []model.Shift
	ids := make([]string, 0, len(m.shifts))
	for id := range m.shifts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if m.shifts[id].IsOpen() {
			result = append(result, *m.shifts[id])
		}
	}
	return result, nil
}

func (m *mockShiftRepo) ListByGuard(_ context.Context, guardID string, from time.Time) ([]model.Shift, error) {
	return nil, nil
}

func (m *mockShiftRepo) ListBySiteBetween(_ context.Context, siteID string, from, to time.Time) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if siteID != "" && s.SiteID != siteID {
			continue
		}
		if s.StartTime.Before(from) || !s.StartTime.Before(to) {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockShiftRepo) Update(_ context.Context, shift *model.Shift) error {
	existing, ok := m.shifts[shift.ShiftID]
	if !ok || existing.Version != shift.Version {
		return pkgerrors.ErrOptimisticLock
	}
	shift.Version++
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) UpdateStatus(_ context.Context, shiftID string, version int, status, _ string) error {
	if m.failUpdateStatus {
		// 模拟并发写入方抢先推进版本
		return pkgerrors.ErrOptimisticLock
	}
	existing, ok := m.shifts[shiftID]
	if !ok || existing.Version != version {
		return pkgerrors.ErrOptimisticLock
	}
	existing.Status = status
	existing.Version++
	return nil
}

func (m *mockShiftRepo) Delete(_ context.Context, id, _ string) error {
	delete(m.shifts, id)
	return nil
}

// ── Mock AssignmentRepository ──
// 持有 shift/guard mock 引用以模拟 Preload

type mockAssignmentRepo struct {
	assignments []*model.Assignment
	shifts      *mockShiftRepo
	guards      *mockGuardRepo
}

func newMockAssignmentRepo(shifts *mockShiftRepo, guards *mockGuardRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{shifts: shifts, guards: guards}
}

func (m *mockAssignmentRepo) attach(a *model.Assignment) *model.Assignment {
	copied := *a
	if s, ok := m.shifts.shifts[a.ShiftID]; ok {
		shiftCopy := *s
		copied.Shift = &shiftCopy
	}
	if g, ok := m.guards.guards[a.GuardID]; ok {
		copied.Guard = g
	}
	return &copied
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.AssignmentID == "" {
		assignment.AssignmentID = fmt.Sprintf("assign-%d", len(m.assignments)+1)
	}
	m.assignments = append(m.assignments, assignment)
	return nil
}

func (m *mockAssignmentRepo) GetActive(_ context.Context, shiftID, guardID string) (*model.Assignment, error) {
	for _, a := range m.assignments {
		if a.ShiftID == shiftID && a.GuardID == guardID && a.Status == model.AssignmentStatusActive {
			return m.attach(a), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) CountActiveByShift(_ context.Context, shiftID string) (int64, error) {
	var count int64
	for _, a := range m.assignments {
		if a.ShiftID == shiftID && a.Status == model.AssignmentStatusActive {
			count++
		}
	}
	return count, nil
}

func (m *mockAssignmentRepo) ListActiveByShift(_ context.Context, shiftID string) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.ShiftID == shiftID && a.Status == model.AssignmentStatusActive {
			result = append(result, *m.attach(a))
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListActiveByGuardBetween(_ context.Context, guardID string, from, to time.Time) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.GuardID != guardID || a.Status != model.AssignmentStatusActive {
			continue
		}
		s, ok := m.shifts.shifts[a.ShiftID]
		if !ok {
			continue
		}
		if s.StartTime.Before(to) && s.EndTime.After(from) {
			result = append(result, *m.attach(a))
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) CountActiveByGuardBetween(_ context.Context, guardID string, from, to time.Time) (int64, error) {
	var count int64
	for _, a := range m.assignments {
		if a.GuardID != guardID || a.Status != model.AssignmentStatusActive {
			continue
		}
		s, ok := m.shifts.shifts[a.ShiftID]
		if !ok {
			continue
		}
		if !s.StartTime.Before(from) && s.StartTime.Before(to) {
			count++
		}
	}
	return count, nil
}

func (m *mockAssignmentRepo) List(_ context.Context, filter repository.AssignmentFilter, offset, limit int) ([]model.Assignment, int64, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if filter.ShiftID != "" && a.ShiftID != filter.ShiftID {
			continue
		}
		if filter.GuardID != "" && a.GuardID != filter.GuardID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		result = append(result, *m.attach(a))
	}
	return result, int64(len(result)), nil
}

func (m *mockAssignmentRepo) Cancel(_ context.Context, assignmentID, _ string) error {
	for _, a := range m.assignments {
		if a.AssignmentID == assignmentID {
			a.Status = model.AssignmentStatusCancelled
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock UnassignmentLogRepository ──

type mockUnassignmentLogRepo struct {
	logs []*model.UnassignmentLog
}

func newMockUnassignmentLogRepo() *mockUnassignmentLogRepo {
	return &mockUnassignmentLogRepo{}
}

func (m *mockUnassignmentLogRepo) Create(_ context.Context, log *model.UnassignmentLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockUnassignmentLogRepo) ListByShift(_ context.Context, shiftID string) ([]model.UnassignmentLog, error) {
	var result []model.UnassignmentLog
	for _, l := range m.logs {
		if l.ShiftID == shiftID {
			result = append(result, *l)
		}
	}
	return result, nil
}

// ── Mock AlertRepository ──
// 以 (shift_id, alert_type) 为键模拟唯一约束

type mockAlertRepo struct {
	alerts map[string]*model.UrgentShiftAlert
	nextID int
}

func newMockAlertRepo() *mockAlertRepo {
	return &mockAlertRepo{alerts: make(map[string]*model.UrgentShiftAlert)}
}

func alertKey(shiftID, alertType string) string {
	return shiftID + "|" + alertType
}

func (m *mockAlertRepo) Upsert(_ context.Context, alert *model.UrgentShiftAlert) error {
	key := alertKey(alert.ShiftID, alert.AlertType)
	if existing, ok := m.alerts[key]; ok {
		existing.Priority = alert.Priority
		existing.EscalationLevel = alert.EscalationLevel
		existing.Status = alert.Status
		existing.Message = alert.Message
		return nil
	}
	m.nextID++
	alert.AlertID = fmt.Sprintf("alert-%d", m.nextID)
	copied := *alert
	m.alerts[key] = &copied
	return nil
}

func (m *mockAlertRepo) GetByID(_ context.Context, id string) (*model.UrgentShiftAlert, error) {
	for _, a := range m.alerts {
		if a.AlertID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAlertRepo) GetByShiftAndType(_ context.Context, shiftID, alertType string) (*model.UrgentShiftAlert, error) {
	if a, ok := m.alerts[alertKey(shiftID, alertType)]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAlertRepo) ListOpenByShift(_ context.Context, shiftID string) ([]model.UrgentShiftAlert, error) {
	var result []model.UrgentShiftAlert
	for _, a := range m.alerts {
		if a.ShiftID == shiftID && a.IsOpen() {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAlertRepo) List(_ context.Context, filter repository.AlertFilter, offset, limit int) ([]model.UrgentShiftAlert, int64, error) {
	var result []model.UrgentShiftAlert
	for _, a := range m.alerts {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && a.Priority != filter.Priority {
			continue
		}
		if filter.AlertType != "" && a.AlertType != filter.AlertType {
			continue
		}
		result = append(result, *a)
	}
	return result, int64(len(result)), nil
}

func (m *mockAlertRepo) UpdateStatus(_ context.Context, alertID, status string) error {
	for _, a := range m.alerts {
		if a.AlertID == alertID {
			a.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []*model.Notification
	failCreate    bool
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if m.failCreate {
		return fmt.Errorf("模拟通知落库失败")
	}
	if notification.NotificationID == "" {
		notification.NotificationID = fmt.Sprintf("notify-%d", len(m.notifications)+1)
	}
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *mockNotificationRepo) ListByRecipient(_ context.Context, recipientID string, offset, limit int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.RecipientID == recipientID {
			result = append(result, *n)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, notificationID, recipientID string) error {
	for _, n := range m.notifications {
		if n.NotificationID == notificationID && n.RecipientID == recipientID {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock LeadRepository ──

type mockLeadRepo struct {
	leads map[string]*model.Lead
}

func newMockLeadRepo() *mockLeadRepo {
	return &mockLeadRepo{leads: make(map[string]*model.Lead)}
}

func (m *mockLeadRepo) Create(_ context.Context, lead *model.Lead) error {
	if lead.LeadID == "" {
		lead.LeadID = fmt.Sprintf("lead-%d", len(m.leads)+1)
	}
	m.leads[lead.LeadID] = lead
	return nil
}

func (m *mockLeadRepo) GetByID(_ context.Context, id string) (*model.Lead, error) {
	if l, ok := m.leads[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeadRepo) List(_ context.Context, status string, offset, limit int) ([]model.Lead, int64, error) {
	var result []model.Lead
	for _, l := range m.leads {
		if status != "" && l.Status != status {
			continue
		}
		result = append(result, *l)
	}
	return result, int64(len(result)), nil
}

func (m *mockLeadRepo) UpdateStatus(_ context.Context, leadID, status, _ string) error {
	if l, ok := m.leads[leadID]; ok {
		l.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── 测试聚合与通用 fixture ──

type testRepos struct {
	user            *mockUserRepo
	guard           *mockGuardRepo
	certification   *mockCertificationRepo
	site            *mockSiteRepo
	shift           *mockShiftRepo
	assignment      *mockAssignmentRepo
	unassignmentLog *mockUnassignmentLogRepo
	alert           *mockAlertRepo
	notification    *mockNotificationRepo
	lead            *mockLeadRepo
}

func newTestRepos() *testRepos {
	guard := newMockGuardRepo()
	shift := newMockShiftRepo()
	return &testRepos{
		user:            newMockUserRepo(),
		guard:           guard,
		certification:   newMockCertificationRepo(),
		site:            newMockSiteRepo(),
		shift:           shift,
		assignment:      newMockAssignmentRepo(shift, guard),
		unassignmentLog: newMockUnassignmentLogRepo(),
		alert:           newMockAlertRepo(),
		notification:    newMockNotificationRepo(),
		lead:            newMockLeadRepo(),
	}
}

func (t *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:            t.user,
		Guard:           t.guard,
		Certification:   t.certification,
		Site:            t.site,
		Shift:           t.shift,
		Assignment:      t.assignment,
		UnassignmentLog: t.unassignmentLog,
		Alert:           t.alert,
		Notification:    t.notification,
		Lead:            t.lead,
	}
}

// testSchedulingConfig 与默认配置保持一致，测试断言依赖这些数值
func testSchedulingConfig() *config.SchedulingConfig {
	return &config.SchedulingConfig{
		MinRestHours:         8,
		MaxWeeklyAssignments: 6,
		PartTimeWeeklyCap:    3,
		ProximityWeight:      0.4,
		PerformanceWeight:    0.6,
		SoftConflictPenalty:  15,
		MinMatchScore:        40,
		DefaultMatchLimit:    10,
		ProximityMaxKm:       80,
	}
}

func testAlertConfig() *config.AlertConfig {
	return &config.AlertConfig{
		UnassignedWindowHours:  24,
		UnconfirmedWindowHours: 12,
		SweepLockTTLSeconds:    300,
	}
}

func floatPtr(v float64) *float64 { return &v }

// seedActiveGuard 在职保安，执照一年有效，全时段可用
func seedActiveGuard(r *testRepos, id string, perf float64, certs ...model.Certification) *model.Guard {
	guard := &model.Guard{
		GuardID:          id,
		Name:             "保安-" + id,
		Email:            id + "@summit-guard.test",
		Status:           model.GuardStatusActive,
		EmploymentType:   model.EmploymentFullTime,
		LicenseNumber:    "LIC-" + id,
		LicenseExpiry:    time.Now().AddDate(1, 0, 0),
		AvailableDay:     true,
		AvailableNight:   true,
		AvailableWeekend: true,
		PerformanceScore: perf,
		Certifications:   certs,
	}
	guard.Version = 1
	r.guard.guards[id] = guard
	return guard
}

// activeCert 一年有效期的 active 资质
func activeCert(guardID, certType string) model.Certification {
	return model.Certification{
		CertificationID: guardID + "-" + certType,
		GuardID:         guardID,
		CertType:        certType,
		IssuedAt:        time.Now().AddDate(-1, 0, 0),
		ExpiresAt:       time.Now().AddDate(1, 0, 0),
		Status:          model.CertStatusActive,
	}
}

// seedShift 指定时段的未分配班次
func seedShift(r *testRepos, id string, start, end time.Time, requiredCerts ...string) *model.Shift {
	shift := &model.Shift{
		ShiftID:       id,
		SiteID:        "site-1",
		StartTime:     start,
		EndTime:       end,
		RequiredCerts: model.StringArray(requiredCerts),
		RequiredCount: 1,
		Priority:      3,
		Status:        model.ShiftStatusUnassigned,
	}
	if shift.RequiredCerts == nil {
		shift.RequiredCerts = model.StringArray{}
	}
	shift.Version = 1
	r.shift.shifts[id] = shift
	return shift
}

// seedActiveAssignment 在班分配记录
func seedActiveAssignment(r *testRepos, shiftID, guardID string) *model.Assignment {
	a := &model.Assignment{
		AssignmentID: fmt.Sprintf("assign-%s-%s", shiftID, guardID),
		ShiftID:      shiftID,
		GuardID:      guardID,
		Method:       model.AssignMethodManual,
		Status:       model.AssignmentStatusActive,
	}
	r.assignment.assignments = append(r.assignment.assignments, a)
	return a
}

// [自证通过] internal/service/mock_repos_test.go
