package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alvstore/muscle-garage-gym-management/config"
	"github.com/alvstore/muscle-garage-gym-management/models"
)

// InterfaceSyncService defines the local mirror of vendor-side state.
// 所有写入都是按唯一键的幂等 upsert；海康侧为准，本地镜像允许滞后。
type InterfaceSyncService interface {
	UpsertMember(member *models.Member) error
	UpsertAccessPrivilege(privilege *models.AccessPrivilege) error
	UpsertAPISetting(setting *models.BranchAPISetting) error
	UpdateSiteAssociation(branchID, siteID, siteName string) error
	UpsertSubscription(sub *models.EventSubscription) error
}

// SyncService 将海康侧操作结果镜像到本地数据库
type SyncService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewSyncService 创建一个新的同步镜像服务
func NewSyncService(db *gorm.DB, cfg *config.Config) InterfaceSyncService {
	return &SyncService{
		DB:     db,
		Config: cfg,
	}
}

// UpsertMember 按 member_id 写入会员与海康人员的映射
func (s *SyncService) UpsertMember(member *models.Member) error {
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"hik_person_id", "name", "gender", "phone", "email", "branch_id",
			"sync_status", "last_sync_at", "updated_at",
		}),
	}).Create(member).Error
}

// UpsertAccessPrivilege 按 (person_id, door_id) 写入门禁权限
func (s *SyncService) UpsertAccessPrivilege(privilege *models.AccessPrivilege) error {
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "person_id"}, {Name: "door_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"device_serial", "branch_id", "valid_start", "valid_end", "status", "updated_at",
		}),
	}).Create(privilege).Error
}

// UpsertAPISetting 按 branch_id 写入分店的接入配置
func (s *SyncService) UpsertAPISetting(setting *models.BranchAPISetting) error {
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "branch_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"api_url", "app_key", "secret_key", "site_id", "site_name", "is_active", "updated_at",
		}),
	}).Create(setting).Error
}

// UpdateSiteAssociation 更新分店关联的站点信息
func (s *SyncService) UpdateSiteAssociation(branchID, siteID, siteName string) error {
	return s.DB.Model(&models.BranchAPISetting{}).
		Where("branch_id = ?", branchID).
		Updates(map[string]interface{}{
			"site_id":   siteID,
			"site_name": siteName,
		}).Error
}

// UpsertSubscription 按 branch_id 写入事件订阅记录
func (s *SyncService) UpsertSubscription(sub *models.EventSubscription) error {
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "branch_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"subscription_id", "topics", "status", "updated_at",
		}),
	}).Create(sub).Error
}
