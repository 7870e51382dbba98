// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package services

import (
	"context"
	"strings"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/clients/artifactsvc"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/repositories"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// DistributionSetService manages distribution sets, their modules and
// artifacts.
type DistributionSetService interface {
	CreateDistributionSet(ctx context.Context, req *models.CreateDistributionSetRequest) (*models.DistributionSet, error)
	GetDistributionSet(ctx context.Context, id int64) (*models.DistributionSet, error)
	ListDistributionSets(ctx context.Context, limit, offset int) ([]*models.DistributionSet, int64, error)
	DeleteDistributionSet(ctx context.Context, id int64) error
}

type distributionSetService struct {
	dsRepo         repositories.DistributionSetRepository
	filterRepo     repositories.TargetFilterRepository
	artifactClient artifactsvc.ArtifactStoreClient
}

// NewDistributionSetService creates a DistributionSetService instance
func NewDistributionSetService(dsRepo repositories.DistributionSetRepository,
	filterRepo repositories.TargetFilterRepository, artifactClient artifactsvc.ArtifactStoreClient) DistributionSetService {
	return &distributionSetService{
		dsRepo:         dsRepo,
		filterRepo:     filterRepo,
		artifactClient: artifactClient,
	}
}

// CreateDistributionSet validates and stores a distribution set with its
// modules and artifacts. Artifact hashes missing from the request are
// resolved through the artifact store. Completeness against the set type's
// mandatory module types is computed once at creation.
func (s *distributionSetService) CreateDistributionSet(ctx context.Context, req *models.CreateDistributionSetRequest) (*models.DistributionSet, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Version) == "" || strings.TrimSpace(req.TypeKey) == "" {
		return nil, utils.ErrInvalidInput
	}
	dsType, err := s.dsRepo.GetTypeByKey(ctx, req.TypeKey)
	if err != nil {
		return nil, err
	}
	if dsType == nil {
		return nil, utils.ErrInvalidInput
	}

	ds := &models.DistributionSet{
		Name:    req.Name,
		Version: req.Version,
		TypeKey: req.TypeKey,
		Modules: make([]models.SoftwareModule, 0, len(req.Modules)),
	}
	for _, moduleReq := range req.Modules {
		if strings.TrimSpace(moduleReq.Name) == "" || strings.TrimSpace(moduleReq.TypeName) == "" {
			return nil, utils.ErrInvalidInput
		}
		module := models.SoftwareModule{
			Name:      moduleReq.Name,
			Version:   moduleReq.Version,
			TypeName:  moduleReq.TypeName,
			Artifacts: make([]models.Artifact, 0, len(moduleReq.Artifacts)),
		}
		for _, artifactReq := range moduleReq.Artifacts {
			artifact, err := s.resolveArtifact(ctx, artifactReq)
			if err != nil {
				return nil, err
			}
			module.Artifacts = append(module.Artifacts, artifact)
		}
		ds.Modules = append(ds.Modules, module)
	}

	ds.Complete = ds.IsComplete(dsType)
	if err := s.dsRepo.CreateDistributionSet(ctx, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (s *distributionSetService) resolveArtifact(ctx context.Context, req models.CreateArtifactRequest) (models.Artifact, error) {
	artifact := models.Artifact{
		Filename:  req.Filename,
		SHA256:    strings.ToLower(req.SHA256),
		SizeBytes: req.SizeBytes,
	}
	if artifact.SHA256 == "" {
		if req.StoreRef == "" {
			return artifact, utils.ErrInvalidInput
		}
		info, err := s.artifactClient.GetArtifactInfo(ctx, req.StoreRef)
		if err != nil {
			return artifact, err
		}
		artifact.SHA256 = strings.ToLower(info.SHA256)
		if artifact.Filename == "" {
			artifact.Filename = info.Filename
		}
		if artifact.SizeBytes == 0 {
			artifact.SizeBytes = info.SizeBytes
		}
	}
	if artifact.Filename == "" || artifact.SHA256 == "" {
		return artifact, utils.ErrInvalidInput
	}
	return artifact, nil
}

// GetDistributionSet returns one set with modules and artifacts preloaded
func (s *distributionSetService) GetDistributionSet(ctx context.Context, id int64) (*models.DistributionSet, error) {
	ds, err := s.dsRepo.GetDistributionSetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, utils.ErrDistributionSetNotFound
	}
	return ds, nil
}

// ListDistributionSets returns a page of non-deleted sets
func (s *distributionSetService) ListDistributionSets(ctx context.Context, limit, offset int) ([]*models.DistributionSet, int64, error) {
	return s.dsRepo.ListDistributionSets(ctx, limit, offset)
}

// DeleteDistributionSet soft-deletes a set. Actions referencing it keep
// working; auto-assignment links pointing at it are cleared so the scheduler
// never assigns a deleted set.
func (s *distributionSetService) DeleteDistributionSet(ctx context.Context, id int64) error {
	ds, err := s.dsRepo.GetDistributionSetByID(ctx, id)
	if err != nil {
		return err
	}
	if ds == nil {
		return utils.ErrDistributionSetNotFound
	}
	if err := s.filterRepo.ClearAutoAssignByDistributionSet(ctx, id); err != nil {
		return err
	}
	return s.dsRepo.SoftDeleteDistributionSet(ctx, id)
}
