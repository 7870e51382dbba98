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

package models

import "time"

// DistributionSetType describes a kind of distribution set and which software
// module types it must carry to be considered complete
type DistributionSetType struct {
	ID                   int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Key                  string    `gorm:"column:key;not null;uniqueIndex"`
	Name                 string    `gorm:"column:name;not null"`
	MandatoryModuleTypes []string  `gorm:"column:mandatory_module_types;type:jsonb;serializer:json;not null;default:'[]'"`
	OptionalModuleTypes  []string  `gorm:"column:optional_module_types;type:jsonb;serializer:json;not null;default:'[]'"`
	CreatedAt            time.Time `gorm:"column:created_at;not null;default:NOW()"`
}

func (DistributionSetType) TableName() string { return "distribution_set_types" }

// DistributionSet is the GORM model for the distribution_sets table
type DistributionSet struct {
	ID        int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string           `gorm:"column:name;not null"`
	Version   string           `gorm:"column:version;not null"`
	TypeKey   string           `gorm:"column:type_key;not null"`
	Complete  bool             `gorm:"column:complete;not null;default:false"`
	Deleted   bool             `gorm:"column:deleted;not null;default:false"`
	Modules   []SoftwareModule `gorm:"many2many:distribution_set_modules;"`
	CreatedAt time.Time        `gorm:"column:created_at;not null;default:NOW()"`
	UpdatedAt time.Time        `gorm:"column:updated_at;not null;default:NOW()"`
}

func (DistributionSet) TableName() string { return "distribution_sets" }

// IsComplete reports whether every mandatory module type of the set's type
// descriptor is covered by an assigned module
func (ds *DistributionSet) IsComplete(dsType *DistributionSetType) bool {
	if dsType == nil {
		return false
	}
	present := make(map[string]struct{}, len(ds.Modules))
	for _, m := range ds.Modules {
		present[m.TypeName] = struct{}{}
	}
	for _, mandatory := range dsType.MandatoryModuleTypes {
		if _, ok := present[mandatory]; !ok {
			return false
		}
	}
	return true
}

// SoftwareModule is one versioned module (os, app, firmware, ...) of a set
type SoftwareModule struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string     `gorm:"column:name;not null"`
	Version   string     `gorm:"column:version;not null"`
	TypeName  string     `gorm:"column:type_name;not null"`
	Deleted   bool       `gorm:"column:deleted;not null;default:false"`
	Artifacts []Artifact `gorm:"foreignKey:SoftwareModuleID"`
	CreatedAt time.Time  `gorm:"column:created_at;not null;default:NOW()"`
}

func (SoftwareModule) TableName() string { return "software_modules" }

// Artifact is a binary carried by a software module. The binary itself lives in
// the external artifact store; the core keeps only identity and content hash.
type Artifact struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SoftwareModuleID int64     `gorm:"column:software_module_id;not null;index"`
	Filename         string    `gorm:"column:filename;not null"`
	SHA256           string    `gorm:"column:sha256;not null;index"`
	SizeBytes        int64     `gorm:"column:size_bytes;not null;default:0"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;default:NOW()"`
}

func (Artifact) TableName() string { return "artifacts" }

// ToResponse converts a DistributionSet DB record to DistributionSetResponse
func (ds *DistributionSet) ToResponse() *DistributionSetResponse {
	modules := make([]SoftwareModuleResponse, len(ds.Modules))
	for i, m := range ds.Modules {
		artifacts := make([]ArtifactResponse, len(m.Artifacts))
		for j, a := range m.Artifacts {
			artifacts[j] = ArtifactResponse{
				ID:        a.ID,
				Filename:  a.Filename,
				SHA256:    a.SHA256,
				SizeBytes: a.SizeBytes,
			}
		}
		modules[i] = SoftwareModuleResponse{
			ID:        m.ID,
			Name:      m.Name,
			Version:   m.Version,
			TypeName:  m.TypeName,
			Artifacts: artifacts,
		}
	}
	return &DistributionSetResponse{
		ID:        ds.ID,
		Name:      ds.Name,
		Version:   ds.Version,
		TypeKey:   ds.TypeKey,
		Complete:  ds.Complete,
		Deleted:   ds.Deleted,
		Modules:   modules,
		CreatedAt: ds.CreatedAt,
	}
}

// CreateDistributionSetRequest is the request body for creating a distribution set
type CreateDistributionSetRequest struct {
	Name    string                        `json:"name"`
	Version string                        `json:"version"`
	TypeKey string                        `json:"typeKey"`
	Modules []CreateSoftwareModuleRequest `json:"modules,omitempty"`
}

// CreateSoftwareModuleRequest is one module within a distribution set creation
type CreateSoftwareModuleRequest struct {
	Name      string                  `json:"name"`
	Version   string                  `json:"version"`
	TypeName  string                  `json:"typeName"`
	Artifacts []CreateArtifactRequest `json:"artifacts,omitempty"`
}

// CreateArtifactRequest references an artifact in the external artifact store.
// When SHA256 is empty the hash is resolved through the artifact store client.
type CreateArtifactRequest struct {
	Filename  string `json:"filename"`
	SHA256    string `json:"sha256,omitempty"`
	SizeBytes int64  `json:"sizeBytes,omitempty"`
	StoreRef  string `json:"storeRef,omitempty"`
}

// DistributionSetResponse is the API response for a distribution set
type DistributionSetResponse struct {
	ID        int64                    `json:"id"`
	Name      string                   `json:"name"`
	Version   string                   `json:"version"`
	TypeKey   string                   `json:"typeKey"`
	Complete  bool                     `json:"complete"`
	Deleted   bool                     `json:"deleted"`
	Modules   []SoftwareModuleResponse `json:"modules"`
	CreatedAt time.Time                `json:"createdAt"`
}

// SoftwareModuleResponse is the API response for a software module
type SoftwareModuleResponse struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Version   string             `json:"version"`
	TypeName  string             `json:"typeName"`
	Artifacts []ArtifactResponse `json:"artifacts"`
}

// ArtifactResponse is the API response for an artifact
type ArtifactResponse struct {
	ID        int64  `json:"id"`
	Filename  string `json:"filename"`
	SHA256    string `json:"sha256"`
	SizeBytes int64  `json:"sizeBytes"`
}

// DistributionSetListResponse is the API response for listing distribution sets
type DistributionSetListResponse struct {
	DistributionSets []DistributionSetResponse `json:"distributionSets"`
	Total            int64                     `json:"total"`
	Limit            int                       `json:"limit"`
	Offset           int                       `json:"offset"`
}
