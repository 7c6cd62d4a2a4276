/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Keyring coordinates of the service token.
const (
	keyringService = "vectorviz"
	keyringToken   = "service_token"
)

// TokenStore abstracts the OS keyring.
type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

var tokenStore TokenStore = osKeyring{}

// LoadToken returns the stored service token, or "" when none is stored.
func LoadToken() (string, error) {
	tok, err := tokenStore.Get(keyringService, keyringToken)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token from keyring: %w", err)
	}
	return tok, nil
}

// StoreToken saves the service token in the keyring.
func StoreToken(tok string) error {
	if err := tokenStore.Set(keyringService, keyringToken, tok); err != nil {
		return fmt.Errorf("store token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the service token; a missing token is not an error.
func DeleteToken() error {
	err := tokenStore.Delete(keyringService, keyringToken)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete token from keyring: %w", err)
	}
	return nil
}
