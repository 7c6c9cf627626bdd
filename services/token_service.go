package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alvstore/muscle-garage-gym-management/config"
	"github.com/alvstore/muscle-garage-gym-management/models"
)

// ErrNoCredential 分店没有任何已存储的访问令牌
var ErrNoCredential = errors.New("no valid access token")

// credentialCacheTTL 凭证缓存的默认有效期
const credentialCacheTTL = 30 * time.Minute

// InterfaceTokenService defines the credential store interface
type InterfaceTokenService interface {
	GetLatestCredential(branchID string) (*models.HikCredential, error)
	SaveCredential(cred *models.HikCredential) error
}

// TokenService 管理每个分店最新的海康访问凭证
type TokenService struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  InterfaceRedisService
}

// NewTokenService 创建一个新的凭证服务
func NewTokenService(db *gorm.DB, cfg *config.Config, cache InterfaceRedisService) InterfaceTokenService {
	return &TokenService{
		DB:     db,
		Config: cfg,
		Cache:  cache,
	}
}

func credentialCacheKey(branchID string) string {
	return "hik_credential:" + branchID
}

// GetLatestCredential 获取分店最近一次更新的凭证。
// 优先读取缓存，数据库为准；没有任何凭证时返回 ErrNoCredential。
func (s *TokenService) GetLatestCredential(branchID string) (*models.HikCredential, error) {
	if s.Cache != nil && s.Cache.Available() {
		var cached models.HikCredential
		if err := s.Cache.Get(credentialCacheKey(branchID), &cached); err == nil && cached.AccessToken != "" {
			return &cached, nil
		}
	}

	var cred models.HikCredential
	err := s.DB.Where("branch_id = ?", branchID).
		Order("updated_at DESC").
		First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCredential
		}
		return nil, err
	}

	// 回填缓存，失败不影响读取结果
	if s.Cache != nil && s.Cache.Available() {
		if err := s.Cache.Set(credentialCacheKey(branchID), &cred, credentialCacheTTL); err != nil {
			config.Warning("回填凭证缓存失败: %v", err)
		}
	}

	return &cred, nil
}

// SaveCredential 覆盖写入分店的当前凭证（每个分店只保留一行）。
// 相同输入重复写入是幂等的。
func (s *TokenService) SaveCredential(cred *models.HikCredential) error {
	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "branch_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "refresh_token", "token_type", "expire_at", "area_domain", "updated_at",
		}),
	}).Create(cred).Error
	if err != nil {
		return err
	}

	// 刷新缓存，失败只记日志
	if s.Cache != nil && s.Cache.Available() {
		ttl := credentialCacheTTL
		if cred.ExpireAt != nil {
			if until := time.Until(*cred.ExpireAt); until > 0 && until < ttl {
				ttl = until
			}
		}
		if err := s.Cache.Set(credentialCacheKey(cred.BranchID), cred, ttl); err != nil {
			config.Warning("刷新凭证缓存失败: %v", err)
		}
	}

	return nil
}
