// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package skills maps free-text skill mentions to a versioned controlled
// vocabulary.
//
// A Dictionary is loaded from a versioned YAML file and pinned for the
// duration of an ingestion run; every extraction result records the
// dictionary version that produced it, so historical ingestions remain
// attributable to their vocabulary. Normalization is a pure function of
// (mention, dictionary): exact canonical match, then declared aliases, then
// approximate string similarity, and finally an explicit "unknown" outcome
// that is retained for curation rather than discarded.
package skills
