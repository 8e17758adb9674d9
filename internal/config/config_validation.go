// SPDX-License-Identifier: Apache-2.0

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.App.SecretCodeLength < 6 {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DB.DSN == "" || cfg.Storage.Files.DocumentRoot == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.OTP.TTL <= 0 || cfg.OTP.MaxAttempts < 1 || cfg.OTP.Length < 4 {
		return ErrInvalidOTPConfigs
	}

	return nil
}
