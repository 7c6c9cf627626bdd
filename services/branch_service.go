package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/alvstore/muscle-garage-gym-management/config"
	"github.com/alvstore/muscle-garage-gym-management/models"
)

// InterfaceBranchService defines the branch/dashboard query interface
type InterfaceBranchService interface {
	GetAllBranches() ([]models.Branch, error)
	GetBranchByID(id string) (*models.Branch, error)
	GetDevicesByBranch(branchID string) ([]models.Device, error)
	GetMembers(branchID string, page models.PaginationQuery) ([]models.Member, models.PaginationResult, error)
}

// BranchService 提供分店相关的查询服务
type BranchService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewBranchService 创建一个新的分店服务
func NewBranchService(db *gorm.DB, cfg *config.Config) InterfaceBranchService {
	return &BranchService{
		DB:     db,
		Config: cfg,
	}
}

// GetAllBranches 获取所有分店及其接入配置
func (s *BranchService) GetAllBranches() ([]models.Branch, error) {
	var branches []models.Branch
	if err := s.DB.Preload("APISetting").Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// GetBranchByID 根据ID获取分店
func (s *BranchService) GetBranchByID(id string) (*models.Branch, error) {
	var branch models.Branch
	if err := s.DB.Preload("APISetting").Preload("Devices").Where("id = ?", id).First(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("分店不存在")
		}
		return nil, err
	}
	return &branch, nil
}

// GetDevicesByBranch 获取分店下的所有设备
func (s *BranchService) GetDevicesByBranch(branchID string) ([]models.Device, error) {
	var devices []models.Device
	if err := s.DB.Where("branch_id = ?", branchID).Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// GetMembers 分页获取会员映射列表
func (s *BranchService) GetMembers(branchID string, page models.PaginationQuery) ([]models.Member, models.PaginationResult, error) {
	if page.PageNum <= 0 {
		page.PageNum = 1
	}
	if page.PageSize <= 0 {
		page.PageSize = 20
	}

	query := s.DB.Model(&models.Member{})
	if branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	order := "created_at ASC"
	if page.Desc {
		order = "created_at DESC"
	}

	var members []models.Member
	offset := (page.PageNum - 1) * page.PageSize
	if err := query.Order(order).Limit(page.PageSize).Offset(offset).Find(&members).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	return members, models.NewPaginationResult(int(total), page.PageNum, page.PageSize), nil
}
