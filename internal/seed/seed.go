package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/repository"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/utils"
)

func ptr[T any](v T) *T { return &v }

// 各联邦州和它们下属的服务区，作为演示环境的基础数据
var statesWithRegions = map[string][]string{
	"Wien":             {"Wien Nord", "Wien Süd", "Wien West"},
	"Niederösterreich": {"St. Pölten", "Wiener Neustadt"},
	"Steiermark":       {"Graz Umgebung", "Leoben"},
	"Oberösterreich":   {"Linz Stadt", "Wels"},
}

var clientLastNames = []string{
	"Aigner", "Brandstätter", "Czerny", "Dorfer", "Ebner", "Fellner",
	"Gasser", "Haas", "Innerhofer", "Jäger", "Koller", "Lechner",
}

// SeedDemoData 往数据库里插入一套演示数据：
// 联邦州、服务区、员工、客户，以及当前周前后各两周的随机班次。
// 所有写入都走 repository，插入班次时同样会做冲突检查，
// 撞上冲突的班次直接跳过。
func SeedDemoData(cfg *config.Config, repo *repository.Repository, employeesPerRegion int, shiftsPerEmployee int) {
	// 联邦州和服务区
	regionIDs := make([]int64, 0)
	stateOrder := int32(0)
	for stateName, regionNames := range statesWithRegions {
		stateOrder++
		state := &domain.FederalState{Name: stateName, SortOrder: ptr(stateOrder)}
		if err := repo.CreateFederalState(state); err != nil {
			slog.Error("无法插入联邦州", "name", stateName, "error", err)
			continue
		}

		for i, regionName := range regionNames {
			region := &domain.Region{
				Name:           regionName,
				FederalStateID: &state.ID,
				SortOrder:      ptr(int32(i + 1)),
			}
			if err := repo.CreateRegion(region); err != nil {
				slog.Error("无法插入服务区", "name", regionName, "error", err)
				continue
			}
			regionIDs = append(regionIDs, region.ID)
		}
	}
	slog.Info("插入联邦州和服务区完成", "regions", len(regionIDs))

	// 客户
	for i, lastName := range clientLastNames {
		client := &domain.Client{
			FirstName: []string{"Josef", "Elisabeth", "Franz", "Maria"}[i%4],
			LastName:  lastName,
		}
		if err := repo.CreateClient(client); err != nil {
			slog.Error("无法插入客户", "error", err)
		}
	}

	// 员工
	employees := make([]*domain.Profile, 0)
	for _, regionID := range regionIDs {
		for i := 0; i < employeesPerRegion; i++ {
			profile, err := utils.GenerateRandomEmployee(cfg.Seed.EmployeePassword, cfg.Email.UserDomain, ptr(regionID))
			if err != nil {
				slog.Error("无法生成随机员工", "error", err)
				continue
			}
			profile.SortOrder = ptr(int32(i + 1))

			if err := repo.CreateProfile(profile); err != nil {
				slog.Error("无法插入员工", "email", profile.Email, "error", err)
				continue
			}
			employees = append(employees, profile)
		}
	}
	slog.Info("插入员工完成", "count", len(employees))

	// 班次：以当前周为中心，前后各两周
	weekStart := scheduler.WeekStart(time.Now())
	created := 0
	for _, employee := range employees {
		for w := -2; w <= 2; w++ {
			dates := scheduler.WeekDates(scheduler.AddWeeks(weekStart, w))
			for i := 0; i < shiftsPerEmployee; i++ {
				from, to := utils.GenerateRandomShiftWindow()
				shift := &domain.Shift{
					EmployeeID: &employee.ID,
					ShiftDate:  dates[rand.Intn(len(dates))],
					TimeFrom:   from,
					TimeTo:     to,
					ClientName: fmt.Sprintf("%s %s", []string{"Josef", "Elisabeth", "Franz", "Maria"}[rand.Intn(4)], clientLastNames[rand.Intn(len(clientLastNames))]),
				}
				if err := repo.CreateShift(shift); err != nil {
					// 随机生成难免撞到冲突，跳过即可
					continue
				}
				created++
			}
		}
	}
	slog.Info("插入班次完成", "count", created)

	// 每个服务区在本周放一个开放班次
	for _, regionID := range regionIDs {
		from, to := utils.GenerateRandomShiftWindow()
		dates := scheduler.WeekDates(weekStart)
		shift := &domain.Shift{
			ShiftDate:  dates[rand.Intn(len(dates))],
			TimeFrom:   from,
			TimeTo:     to,
			ClientName: fmt.Sprintf("Josef %s", clientLastNames[rand.Intn(len(clientLastNames))]),
			RegionID:   ptr(regionID),
			OpenShift:  true,
		}
		if err := repo.CreateShift(shift); err != nil {
			slog.Error("无法插入开放班次", "error", err)
		}
	}
	slog.Info("插入开放班次完成", "count", len(regionIDs))
}
